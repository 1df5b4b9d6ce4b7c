package gsvc

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/gramlex/store"
	"github.com/dekarrin/gramlex/store/inmem"
	"github.com/dekarrin/gramlex/store/sqlite"
)

// DBType is the type of database connection a Database selects.
type DBType string

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

func (t DBType) String() string {
	return string(t)
}

// ParseDBType parses a string found in a connection string into a DBType.
func ParseDBType(s string) (DBType, error) {
	switch strings.ToLower(s) {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database holds the settings needed to connect to a store.Store.
type Database struct {
	// Type selects which store.Store implementation Connect builds.
	Type DBType

	// DataDir is the directory sqlite's grammars.db lives in. Only used
	// when Type is DatabaseSQLite.
	DataDir string
}

// Connect performs all logic needed to open the configured store.Store.
func (db Database) Connect() (store.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		if err := os.MkdirAll(db.DataDir, 0770); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		ds, err := sqlite.NewDatastore(db.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite: %w", err)
		}
		return ds, nil
	case DatabaseNone:
		return nil, fmt.Errorf("cannot connect to 'none' DB")
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Validate returns an error if db does not have the fields its Type needs.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}
