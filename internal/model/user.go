package model

// User represents an application user record as stored in the `users`
// table.  The json tags are omitted because these structs are used by the
// repository and session layers; handlers render only what they need.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique display name (4–20 characters at signup).
//	Email        – unique, lower-cased email address used to log in.
//	PasswordHash – bcrypt hashed password.
//	IsActive     – inactive accounts cannot log in or restore a session.
type User struct {
	ID           uint64 // users.id
	Username     string // users.username
	Email        string // users.email
	PasswordHash string // users.password_hash
	IsActive     bool   // users.is_active
}
