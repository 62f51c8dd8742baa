package main

import (
	"fmt"
	"os"

	"github.com/mwantia/lensdb/cmd/lensdb/cli"
	"github.com/mwantia/lensdb/cmd/lensdb/cli/catalog"
	"github.com/mwantia/lensdb/cmd/lensdb/cli/client"
	"github.com/mwantia/lensdb/cmd/lensdb/cli/db"
	"github.com/mwantia/lensdb/cmd/lensdb/cli/server"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewVersionCommand())

	root.AddCommand(server.NewAgentCommand())
	root.AddCommand(server.NewConfigCommand())

	root.AddCommand(catalog.NewPredicatesCommand())
	root.AddCommand(catalog.NewQueryCommand())
	root.AddCommand(db.NewDatabaseCommand())
	root.AddCommand(client.NewLensesCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
