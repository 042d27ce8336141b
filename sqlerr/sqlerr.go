// Package sqlerr classifies failures returned by the store.
//
// Driver errors (pgx, lib/pq, and gorm's translated sqlite errors) are
// wrapped unchanged in an *Error carrying a driver-independent Code, so
// callers can tell a constraint violation from a connectivity failure
// without importing any driver package.
package sqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Code is the driver-independent class of a store failure.
type Code int

const (
	Other Code = iota
	ForeignKeyViolation
	UniqueViolation
	NotNullViolation
	CheckViolation
	ConnectionFailure
)

func (c Code) String() string {
	switch c {
	case ForeignKeyViolation:
		return "foreign_key_violation"
	case UniqueViolation:
		return "unique_violation"
	case NotNullViolation:
		return "not_null_violation"
	case CheckViolation:
		return "check_violation"
	case ConnectionFailure:
		return "connection_failure"
	default:
		return "other"
	}
}

// IsConstraint reports whether the code is an integrity constraint violation.
func (c Code) IsConstraint() bool {
	switch c {
	case ForeignKeyViolation, UniqueViolation, NotNullViolation, CheckViolation:
		return true
	}
	return false
}

// Error is a store failure. The original driver error is kept intact and
// reachable through errors.Unwrap / errors.As.
type Error struct {
	Op           string
	Code         Code
	DatabaseCode string
	Table        string
	Column       string
	Constraint   string
	err          error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// MapCode maps a PostgreSQL SQLSTATE to a Code.
func MapCode(sqlState string) Code {
	switch {
	case sqlState == "23503":
		return ForeignKeyViolation
	case sqlState == "23505":
		return UniqueViolation
	case sqlState == "23502":
		return NotNullViolation
	case sqlState == "23514":
		return CheckViolation
	case strings.HasPrefix(sqlState, "08"):
		return ConnectionFailure
	}
	return Other
}

// Wrap classifies err as a store failure raised while performing op.
// A nil err stays nil and an err that is already an *Error is returned as is.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return err
	}

	out := &Error{Op: op, Code: Other, err: err}

	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	var connErr *pgconn.ConnectError
	switch {
	case errors.As(err, &pgErr):
		out.Code = MapCode(pgErr.Code)
		out.DatabaseCode = pgErr.Code
		out.Table = pgErr.TableName
		out.Column = pgErr.ColumnName
		out.Constraint = pgErr.ConstraintName
	case errors.As(err, &pqErr):
		out.Code = MapCode(string(pqErr.Code))
		out.DatabaseCode = string(pqErr.Code)
		out.Table = pqErr.Table
		out.Column = pqErr.Column
		out.Constraint = pqErr.Constraint
	case errors.As(err, &connErr):
		out.Code = ConnectionFailure
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		out.Code = ForeignKeyViolation
	case errors.Is(err, gorm.ErrDuplicatedKey):
		out.Code = UniqueViolation
	}

	return out
}

// ErrCode reports the Code of err, or Other when err is not a store failure.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// UserMessage renders a store failure as text that is safe to show to
// API clients. Driver details never leak into it.
func UserMessage(err error) string {
	var sqlErr *Error
	if !errors.As(err, &sqlErr) {
		return "An error occurred while processing your request"
	}

	entity := entityName(sqlErr.Table, sqlErr.Column)
	switch sqlErr.Code {
	case ForeignKeyViolation:
		// the violating table is the referencing one, so only the column names the target
		return fmt.Sprintf("The referenced %s does not exist", entityName("", sqlErr.Column))
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entity)
	case NotNullViolation:
		field := humanize(sqlErr.Column)
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)
	case CheckViolation:
		return "One or more values do not meet required conditions"
	case ConnectionFailure:
		return "The database is unavailable"
	default:
		return "An error occurred while processing your request"
	}
}

// entityName prefers a foreign key column ("category_id" -> "Category"),
// then a singularised table name, then "record".
func entityName(table, column string) string {
	if column != "" && strings.HasSuffix(strings.ToLower(column), "_id") {
		return humanize(strings.TrimSuffix(strings.ToLower(column), "_id"))
	}
	if table != "" {
		switch {
		case strings.HasSuffix(table, "ies"):
			table = strings.TrimSuffix(table, "ies") + "y"
		case strings.HasSuffix(table, "s"):
			table = strings.TrimSuffix(table, "s")
		}
		return humanize(table)
	}
	return "record"
}

func humanize(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}
