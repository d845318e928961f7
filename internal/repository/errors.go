// Package repository contains the MySQL data access layer. Repositories
// return the sentinels below for expected outcomes and raw driver errors
// for everything else; the service layer translates both into typed
// application errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row, or when a
// mutation guarded by an owner predicate matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// key (username, email, playlist name, playlist entry).
var ErrDuplicate = errors.New("duplicate")

const (
	erDupEntry        = 1062 // ER_DUP_ENTRY
	erNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
)

func mysqlCode(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicate(err error) bool { return mysqlCode(err) == erDupEntry }

// isMissingParent reports a foreign key failure on insert, i.e. the
// referenced video, comment, tweet or user no longer exists.
func isMissingParent(err error) bool { return mysqlCode(err) == erNoReferencedRow }

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
