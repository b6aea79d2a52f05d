// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers to distinguish
// between different failure scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique email key.
var ErrEmailExists = errors.New("email already exists")

// ErrSlugExists is returned when an insert or update violates a unique
// slug key.
var ErrSlugExists = errors.New("slug already exists")

// mysqlDuplicateEntry is the server error number for unique key violations.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
