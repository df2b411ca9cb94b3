package models

// User identifies a grader or student referenced by submissions and filters.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ReadableName returns the name shown in filter labels.
func (u User) ReadableName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// UserLookup resolves a user id to a full user. Identity resolution lives
// outside this module; callers inject whatever directory they have.
type UserLookup interface {
	Resolve(id int64) (User, bool)
}

// UserLookupFunc adapts a plain function to the UserLookup interface.
type UserLookupFunc func(id int64) (User, bool)

// Resolve implements UserLookup.
func (f UserLookupFunc) Resolve(id int64) (User, bool) {
	return f(id)
}
