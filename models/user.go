package models

// Role tags carried in the users table and in issued tokens.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account holder. It maps to the `users` table in SQLite.
// HashedPassword never leaves the process.
type User struct {
	ID             int64  `db:"id" json:"id"`
	Email          string `db:"email" json:"email"`
	Username       string `db:"username" json:"username"`
	FirstName      string `db:"first_name" json:"first_name"`
	LastName       string `db:"last_name" json:"last_name"`
	HashedPassword string `db:"hashed_password" json:"-"`
	IsActive       bool   `db:"is_active" json:"is_active"`
	Role           string `db:"role" json:"role"`
	PhoneNumber    string `db:"phone_number" json:"phone_number"`
}

// IsAdmin reports whether the stored role is the admin tag.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
