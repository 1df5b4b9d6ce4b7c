package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"

	"github.com/dekarrin/gramlex/store"
)

type GrammarsDB struct {
	db *sql.DB
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (repo *GrammarsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		source BLOB NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g store.Grammar) (store.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return store.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	encodedSource := rezi.EncBinary(g.Source)

	stmt, err := repo.db.Prepare(`INSERT INTO grammars (id, name, source, created, modified) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return store.Grammar{}, wrapDBError(err)
	}

	now := time.Now()
	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		g.Name,
		encodedSource,
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return store.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (store.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, source, created, modified FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	return repo.scanOne(row)
}

func (repo *GrammarsDB) GetByName(ctx context.Context, name string) (store.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, source, created, modified FROM grammars WHERE name = ?;`, name)
	return repo.scanOne(row)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]store.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, source, created, modified FROM grammars ORDER BY name;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []store.Grammar
	for rows.Next() {
		g, err := repo.scanRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, g)
	}
	return all, rows.Err()
}

func (repo *GrammarsDB) Update(ctx context.Context, id uuid.UUID, g store.Grammar) (store.Grammar, error) {
	encodedSource := rezi.EncBinary(g.Source)

	stmt, err := repo.db.Prepare(`UPDATE grammars SET name = ?, source = ?, modified = ? WHERE id = ?;`)
	if err != nil {
		return store.Grammar{}, wrapDBError(err)
	}

	_, err = stmt.ExecContext(ctx, g.Name, encodedSource, convertToDB_Time(time.Now()), convertToDB_UUID(id))
	if err != nil {
		return store.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, id)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (store.Grammar, error) {
	g, err := repo.GetByID(ctx, id)
	if err != nil {
		return store.Grammar{}, err
	}

	stmt, err := repo.db.Prepare(`DELETE FROM grammars WHERE id = ?;`)
	if err != nil {
		return store.Grammar{}, wrapDBError(err)
	}
	if _, err := stmt.ExecContext(ctx, convertToDB_UUID(id)); err != nil {
		return store.Grammar{}, wrapDBError(err)
	}

	return g, nil
}

func (repo *GrammarsDB) Close() error {
	return nil
}

func (repo *GrammarsDB) scanOne(row rowScanner) (store.Grammar, error) {
	var g store.Grammar
	var id, encodedSource string
	var created, modified int64

	err := row.Scan(&id, &g.Name, &encodedSource, &created, &modified)
	if err != nil {
		return store.Grammar{}, wrapDBError(err)
	}
	return repo.decode(g, id, encodedSource, created, modified)
}

func (repo *GrammarsDB) scanRow(rows rowScanner) (store.Grammar, error) {
	return repo.scanOne(rows)
}

func (repo *GrammarsDB) decode(g store.Grammar, id, encodedSource string, created, modified int64) (store.Grammar, error) {
	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return store.Grammar{}, fmt.Errorf("stored grammar ID %q is invalid: %w", id, err)
	}

	var source string
	if _, err := rezi.DecBinary([]byte(encodedSource), &source); err != nil {
		return store.Grammar{}, fmt.Errorf("stored grammar source is corrupt: %w", err)
	}
	g.Source = source

	if err := convertFromDB_Time(created, &g.Created); err != nil {
		return store.Grammar{}, err
	}
	if err := convertFromDB_Time(modified, &g.Modified); err != nil {
		return store.Grammar{}, err
	}
	return g, nil
}
