// Package sqlite is a store.Store backed by modernc.org/sqlite.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	sqlitedrv "modernc.org/sqlite"

	"github.com/dekarrin/gramlex/store"
)

type datastore struct {
	dbFilename string
	db         *sql.DB

	grammars *GrammarsDB
}

// NewDatastore opens (creating if necessary) a sqlite database under
// storageDir and returns a store.Store backed by it.
func NewDatastore(storageDir string) (store.Store, error) {
	ds := &datastore{dbFilename: "grammars.db"}

	fileName := filepath.Join(storageDir, ds.dbFilename)

	var err error
	ds.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	ds.grammars = &GrammarsDB{db: ds.db}
	if err := ds.grammars.init(); err != nil {
		return nil, err
	}

	return ds, nil
}

func (ds *datastore) Grammars() store.GrammarRepository {
	return ds.grammars
}

func (ds *datastore) Close() error {
	return ds.db.Close()
}

func wrapDBError(err error) error {
	sqliteErr := &sqlitedrv.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return store.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlitedrv.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// convertToDB_UUID converts a uuid.UUID to storage DB format on disk.
func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

// convertFromDB_UUID converts storage DB format value to a uuid.UUID and
// stores it at the address pointed to by target.
func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %s", store.ErrDecodingFailure, err)
	}
	*target = u
	return nil
}

// convertToDB_Time converts a time.Time to storage DB format on disk.
func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

// convertFromDB_Time converts storage DB format value to a time.Time and
// stores it at the address pointed to by target.
func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}
