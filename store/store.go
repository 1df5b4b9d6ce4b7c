// Package store defines the persistence interface for named grammars: a
// long-running service registers a grammar config document once under a
// name and can then parse many lines against it. Only the document source is
// stored; the compiled Parser is not, so a user of the store builds it from
// Source when needed.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from storage format to model format")
)

// Store holds the repositories a gramlex service needs. Close releases any
// underlying connections.
type Store interface {
	Grammars() GrammarRepository
	Close() error
}

// Grammar is one named, persisted gramconfig document.
type Grammar struct {
	ID       uuid.UUID
	Name     string // UNIQUE, NOT NULL
	Source   string // the raw gramconfig TOML document
	Created  time.Time
	Modified time.Time
}

// GrammarRepository stores and retrieves Grammar records by name or id.
type GrammarRepository interface {
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)
	GetByName(ctx context.Context, name string) (Grammar, error)
	GetAll(ctx context.Context) ([]Grammar, error)
	Update(ctx context.Context, id uuid.UUID, g Grammar) (Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}
