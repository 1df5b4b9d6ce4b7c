// Package inmem is a store.Store backed by plain in-memory maps, useful for
// tests and short-lived processes that don't need persistence across runs.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/gramlex/store"
)

type datastore struct {
	grammars *GrammarsRepository
}

// NewDatastore returns a store.Store with no persisted data.
func NewDatastore() store.Store {
	return &datastore{grammars: NewGrammarsRepository()}
}

func (ds *datastore) Grammars() store.GrammarRepository {
	return ds.grammars
}

func (ds *datastore) Close() error {
	return nil
}

// GrammarsRepository is a map-backed store.GrammarRepository, safe for
// concurrent use.
type GrammarsRepository struct {
	mu        sync.RWMutex
	grammars  map[uuid.UUID]store.Grammar
	byNameIdx map[string]uuid.UUID
}

func NewGrammarsRepository() *GrammarsRepository {
	return &GrammarsRepository{
		grammars:  make(map[uuid.UUID]store.Grammar),
		byNameIdx: make(map[string]uuid.UUID),
	}
}

func (r *GrammarsRepository) Close() error {
	return nil
}

func (r *GrammarsRepository) Create(ctx context.Context, g store.Grammar) (store.Grammar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byNameIdx[g.Name]; exists {
		return store.Grammar{}, store.ErrConstraintViolation
	}

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return store.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	g.ID = newUUID
	g.Created = now
	g.Modified = now

	r.grammars[g.ID] = g
	r.byNameIdx[g.Name] = g.ID

	return g, nil
}

func (r *GrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (store.Grammar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.grammars[id]
	if !ok {
		return store.Grammar{}, store.ErrNotFound
	}
	return g, nil
}

func (r *GrammarsRepository) GetByName(ctx context.Context, name string) (store.Grammar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNameIdx[name]
	if !ok {
		return store.Grammar{}, store.ErrNotFound
	}
	return r.grammars[id], nil
}

func (r *GrammarsRepository) GetAll(ctx context.Context) ([]store.Grammar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]store.Grammar, 0, len(r.grammars))
	for _, g := range r.grammars {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *GrammarsRepository) Update(ctx context.Context, id uuid.UUID, g store.Grammar) (store.Grammar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.grammars[id]
	if !ok {
		return store.Grammar{}, store.ErrNotFound
	}

	if g.Name != existing.Name {
		if _, exists := r.byNameIdx[g.Name]; exists {
			return store.Grammar{}, store.ErrConstraintViolation
		}
		delete(r.byNameIdx, existing.Name)
		r.byNameIdx[g.Name] = id
	}

	g.ID = id
	g.Created = existing.Created
	g.Modified = time.Now()

	r.grammars[id] = g
	return g, nil
}

func (r *GrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (store.Grammar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.grammars[id]
	if !ok {
		return store.Grammar{}, store.ErrNotFound
	}

	delete(r.grammars, id)
	delete(r.byNameIdx, g.Name)
	return g, nil
}
