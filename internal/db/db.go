// Package db stores a suggestion list in SQLite.
//
// Rows live in things(position, markdown). Readers order by position; writers
// only ever append, so a row's rank never moves once written.
package db

import (
	"errors"
)

// ErrNullMarkdown reports a row whose markdown column is NULL.
var ErrNullMarkdown = errors.New("markdown is NULL")
