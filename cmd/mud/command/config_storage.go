package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/storage"
)

const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// StoreConfig selects where one collection of records lives. For the file
// backend Path is a directory; for bolt and sqlite it is a database file that
// several collections may share. Environment overrides are MUD_<COLLECTION>_BACKEND
// and MUD_<COLLECTION>_PATH.
type StoreConfig struct {
	Backend string `json:"backend" env:"BACKEND"`
	Path    string `json:"path" env:"PATH"`
}

func (c *StoreConfig) validate(name string) error {
	el := errors.NewErrorList()

	switch c.Backend {
	case "", BackendFile, BackendBolt, BackendSQLite:
	default:
		el.Add(fmt.Errorf("%s: unknown backend %q", name, c.Backend))
	}
	if c.Path == "" {
		el.Add(fmt.Errorf("%s: path is required", name))
	}

	return el.Err()
}

type StorageConfig struct {
	Rooms    StoreConfig `json:"rooms"`
	Items    StoreConfig `json:"items"`
	Accounts StoreConfig `json:"accounts"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Rooms.validate("rooms"))
	el.Add(c.Items.validate("items"))
	el.Add(c.Accounts.validate("accounts"))
	return el.Err()
}

// databases opens each database file once, however many collections use it.
type databases struct {
	bolt   map[string]*storage.BoltDB
	sqlite map[string]*storage.SQLDB
}

func newDatabases() *databases {
	return &databases{
		bolt:   make(map[string]*storage.BoltDB),
		sqlite: make(map[string]*storage.SQLDB),
	}
}

func (d *databases) backend(name string, c StoreConfig) (storage.Backend, error) {
	switch c.Backend {
	case BackendBolt:
		db, ok := d.bolt[c.Path]
		if !ok {
			var err error
			if db, err = storage.OpenBolt(c.Path); err != nil {
				return nil, err
			}
			d.bolt[c.Path] = db
		}
		return db.Bucket(name)

	case BackendSQLite:
		db, ok := d.sqlite[c.Path]
		if !ok {
			var err error
			if db, err = storage.OpenSQLite(c.Path); err != nil {
				return nil, err
			}
			d.sqlite[c.Path] = db
		}
		return db.Collection(name), nil

	default:
		return storage.NewFileStore(c.Path)
	}
}

func (d *databases) Close() error {
	el := errors.NewErrorList()
	for _, db := range d.bolt {
		el.Add(db.Close())
	}
	for _, db := range d.sqlite {
		el.Add(db.Close())
	}
	return el.Err()
}
