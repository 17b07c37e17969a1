package model

// User represents an application user record as stored in the
// `users` table. Unlike most internal structs, users are also
// serialized directly by the /auth/users/me endpoint, so json tags
// are defined here. The bcrypt hash never leaves the process.
//
// Fields:
//  UserID       – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password (users.password column).
//  Role         – free-form role label, defaults to "user".
type User struct {
	UserID       uint64 `json:"userid"`   // users.userid
	Username     string `json:"username"` // users.username
	Email        string `json:"email"`    // users.email
	PasswordHash string `json:"-"`        // users.password
	Role         string `json:"role"`     // users.role
}
