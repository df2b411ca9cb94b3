// Command gemalytics loads a grading snapshot exported by the platform,
// applies the requested filters and prints the derived statistics. All
// computation happens in memory; the snapshot file is the only input.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-analytics/internal/config"
	"github.com/noah-isme/gema-analytics/internal/models"
	"github.com/noah-isme/gema-analytics/internal/workspace"
)

type snapshot struct {
	Assignment struct {
		ID       int64              `json:"id"`
		Name     string             `json:"name"`
		MaxGrade float64            `json:"max_grade"`
		Rubric   []models.RubricRow `json:"rubric"`
	} `json:"assignment"`
	Users       []models.User                           `json:"users"`
	Submissions map[int64][]workspace.SubmissionPayload `json:"submissions"`
	Sources     []workspace.SourcePayload               `json:"sources"`
	Filters     []workspace.FilterData                  `json:"filters"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	raw, err := os.ReadFile(cfg.SnapshotPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.SnapshotPath).Msg("failed to read snapshot")
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		logger.Fatal().Err(err).Msg("failed to decode snapshot")
	}

	assignment := models.Assignment{
		ID:       snap.Assignment.ID,
		Name:     snap.Assignment.Name,
		MaxGrade: snap.Assignment.MaxGrade,
	}
	if len(snap.Assignment.Rubric) > 0 {
		rubric, err := models.NewRubric(snap.Assignment.Rubric)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid rubric")
		}
		assignment.Rubric = rubric
	}

	declared := make([]workspace.SourceName, 0, len(snap.Sources))
	for _, payload := range snap.Sources {
		declared = append(declared, payload.Name)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	ws, err := workspace.FromServerData(assignment, snap.Submissions, declared, snap.Sources, validate, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build workspace")
	}

	lookup := userDirectory(snap.Users)
	filters := make([]workspace.Filter, 0, len(snap.Filters))
	for _, data := range snap.Filters {
		filters = append(filters, workspace.DeserializeFilter(data, lookup))
	}
	if len(filters) == 0 {
		filters = append(filters, workspace.DefaultFilter())
	}

	for _, result := range ws.Filter(context.Background(), filters) {
		report(logger, cfg, loc, result)
	}
}

func userDirectory(users []models.User) models.UserLookup {
	byID := make(map[int64]models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	return models.UserLookupFunc(func(id int64) (models.User, bool) {
		user, ok := byID[id]
		return user, ok
	})
}

func report(logger zerolog.Logger, cfg config.Config, loc *time.Location, result *workspace.FilterResult) {
	subs := result.Submissions()

	event := logger.Info().
		Str("filter", result.Filter().String()).
		Int("submissions", subs.Len()).
		Int("students", len(subs.StudentIDs()))

	if grades := subs.GradeStats(); grades != nil {
		event = event.
			Float64("grade_mean", grades.Mean).
			Float64("grade_median", grades.Median).
			Float64("grade_stdev", grades.Stdev)
	}
	event.Msg("cohort")

	logger.Info().
		Int("grade_bins", len(subs.BinSubmissionsByGrade(cfg.GradeBinSize))).
		Int("date_bins", len(subs.BinSubmissionsByDate(nil, cfg.DateBinSize, cfg.DateBinUnit, loc))).
		Msg("distribution")

	if source, ok := result.GetSource(workspace.SourceRubricData); ok {
		rubric := source.(*workspace.RubricSource)
		for rowID, rit := range rubric.RitPerCat() {
			event := logger.Info().Int64("row_id", rowID)
			if rit != nil {
				event = event.Float64("rit", *rit)
			}
			if rir := rubric.RirPerCat()[rowID]; rir != nil {
				event = event.Float64("rir", *rir)
			}
			if mean := rubric.MeanPerCat()[rowID]; mean != nil {
				event = event.Float64("mean", *mean)
			}
			event.Msg("rubric category")
		}
	}

	if source, ok := result.GetSource(workspace.SourceInlineFeedback); ok {
		feedback := source.(*workspace.InlineFeedbackSource)
		if summary := feedback.EntryStats(); summary != nil {
			logger.Info().
				Float64("feedback_mean", summary.Mean).
				Float64("feedback_median", summary.Median).
				Msg("inline feedback")
		}
	}
}
