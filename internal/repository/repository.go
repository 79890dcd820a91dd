// Package repository persists profiles, waste posts and notifications in Postgres.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrNotOwner is returned when the row exists but belongs to another user
	ErrNotOwner = errors.New("row belongs to another user")
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// whereBuilder collects conditions with positional parameters.
// Each condition uses %s where its placeholder goes.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) add(cond string, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(cond, fmt.Sprintf("$%d", len(b.args))))
}

func (b *whereBuilder) addRaw(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *whereBuilder) sql() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// page appends limit and offset and returns their placeholders
func (b *whereBuilder) page(limit, offset int) string {
	b.args = append(b.args, limit, offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(b.args)-1, len(b.args))
}
