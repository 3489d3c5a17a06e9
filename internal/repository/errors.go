// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as handlers
// to distinguish between failure scenarios with errors.Is.  Uniqueness is
// enforced by the database; the helpers below translate driver-specific
// duplicate-key errors for both MySQL and SQLite into these sentinels.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrEmailExists is returned when a user with the same email already exists.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when a user with the same username already exists.
var ErrUsernameExists = errors.New("username already exists")

// ErrFavoriteExists signals that the (user, city) pair is already stored.
// Handlers report it as an informational status, not a failure.
var ErrFavoriteExists = errors.New("favorite already exists")

// ErrFavoriteNotFound is returned when deleting a favorite that does not exist.
var ErrFavoriteNotFound = errors.New("favorite not found")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique-constraint violation.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}

// duplicateMentions reports whether a duplicate-key error names column, as
// in "users.uq_users_email" (MySQL) or "users.email" (SQLite).
func duplicateMentions(err error, column string) bool {
	return strings.Contains(strings.ToLower(err.Error()), column)
}
