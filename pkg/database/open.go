package database

import (
	"context"
	"fmt"
)

// Options selects and configures a Store driver.
type Options struct {
	Driver   string // file | sqlite | postgres | mysql | sqlserver | mongo
	File     string // file driver path
	DSN      string // SQL drivers
	MongoURI string
	MongoDB  string
	Name     string // document name for SQL and mongo drivers
}

// Open builds the Store named by opts.Driver.
func Open[T any](ctx context.Context, opts Options) (Store[T], error) {
	name := opts.Name
	if name == "" {
		name = "store"
	}

	switch opts.Driver {
	case "", "file":
		s, err := NewFileStore[T](opts.File)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite", "postgres", "mysql", "sqlserver":
		s, err := OpenSQL[T](opts.Driver, opts.DSN, name)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mongo":
		s, err := OpenMongo[T](ctx, opts.MongoURI, opts.MongoDB, name)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("database: unknown driver %q", opts.Driver)
	}
}
