package model

import "time"

// Account represents a registered user record as stored in the
// `accounts` table.  Each field corresponds to a column in the
// database.  The json tags are omitted because these structs are
// used internally by the repository layer; pages render their own
// view of the data.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password; the plaintext is never stored.
//  CreatedAt    – timestamp of registration.
type Account struct {
	ID           uint64    // accounts.id
	Username     string    // accounts.username
	Email        string    // accounts.email
	PasswordHash string    // accounts.password_hash
	CreatedAt    time.Time // accounts.created_at
}
