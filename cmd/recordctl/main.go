// Package main implements the command line tool of a record store backed by a
// local database.
//
//  recordctl account keygen --out payer.key
//  recordctl account fund --address $(recordctl account address --key payer.key)\
//    --lamports 1000000000
//  recordctl record init --key payer.key --record record.key --data 42
//  recordctl record update --key payer.key --address XX --data 43
//  recordctl record show --address XX
//
// The database path can be set with --db or RECORDSTORE_DB, and accounts can be
// funded on the first start with a YAML genesis given by --genesis.
package main

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/recordstore/cli/node"
	record "go.dedis.ch/recordstore/contracts/record/controller"
	system "go.dedis.ch/recordstore/contracts/system/controller"
	host "go.dedis.ch/recordstore/core/host/controller"
	db "go.dedis.ch/recordstore/core/store/kv/controller"
)

var printer io.Writer = os.Stderr

func main() {
	err := run(os.Args, os.Stdout)
	if err != nil {
		fmt.Fprintf(printer, "%+v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	builder := node.NewBuilderWithCfg("recordctl", out,
		db.NewMinimal(),
		host.NewMinimal(),
		system.NewController(),
		record.NewController(),
	)

	app := builder.Build()

	return app.Run(args)
}
