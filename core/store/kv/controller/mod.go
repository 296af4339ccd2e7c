// Package controller implements the initializer that opens the database of
// the command line tool.
package controller

import (
	"go.dedis.ch/recordstore/cli"
	"go.dedis.ch/recordstore/cli/node"
	"go.dedis.ch/recordstore/core/store/kv"
	"golang.org/x/xerrors"
)

// DBFlag is the name of the flag for the path of the database file.
const DBFlag = "db"

const defaultPath = "recordstore.db"

// minimal is the initializer of the database.
//
// - implements node.Initializer
type minimal struct {
	open func(path string) (kv.DB, error)
}

// NewMinimal returns the initializer of the database.
func NewMinimal() node.Initializer {
	return minimal{open: kv.New}
}

// SetCommands implements node.Initializer. It defines the global flag for the
// database path.
func (m minimal) SetCommands(builder node.Builder) {
	builder.SetGlobalFlags(cli.StringFlag{
		Name:    DBFlag,
		Usage:   "path to the database file",
		Value:   defaultPath,
		EnvVars: []string{"RECORDSTORE_DB"},
	})
}

// OnStart implements node.Initializer. It opens the database and injects it.
func (m minimal) OnStart(flags cli.Flags, inj node.Injector) error {
	path := flags.Path(DBFlag)
	if path == "" {
		path = defaultPath
	}

	db, err := m.open(path)
	if err != nil {
		return xerrors.Errorf("db: %v", err)
	}

	inj.Inject(db)

	return nil
}

// OnStop implements node.Initializer. It closes the database.
func (m minimal) OnStop(inj node.Injector) error {
	var db kv.DB
	err := inj.Resolve(&db)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	err = db.Close()
	if err != nil {
		return xerrors.Errorf("while closing db: %v", err)
	}

	return nil
}
