package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned when a result cell holds something other than passed/failed/todo.
var ErrUnknownStatus = errors.New("unknown status")

// Status is the result of a single checklist item. The zero value is StatusTodo.
type Status int

const (
	StatusTodo Status = iota
	StatusPassed
	StatusFailed
)

var statusNames = map[Status]string{
	StatusTodo:   "todo",
	StatusPassed: "passed",
	StatusFailed: "failed",
}

var statusAliases = map[string]Status{
	"todo":    StatusTodo,
	"pending": StatusTodo,
	"":        StatusTodo,
	"passed":  StatusPassed,
	"pass":    StatusPassed,
	"ok":      StatusPassed,
	"done":    StatusPassed,
	"failed":  StatusFailed,
	"fail":    StatusFailed,
}

// Statuses lists every status, the ones holding a release back first.
func Statuses() []Status { return []Status{StatusFailed, StatusTodo, StatusPassed} }

// ParseStatus converts a (case-insensitive) name or alias into a Status.
func ParseStatus(s string) (Status, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return StatusTodo, fmt.Errorf("%w %q, want one of passed, failed, todo", ErrUnknownStatus, s)
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Next cycles todo -> passed -> failed -> todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusPassed
	case StatusPassed:
		return StatusFailed
	default:
		return StatusTodo
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	st, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Value implements driver.Valuer, statuses are stored by name.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s = StatusTodo
		return nil
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("scan status: unsupported type %T", value)
	}
}
