package main

import (
	"os"

	"github.com/Carmen-Shannon/oxy-orbit/internal/cli"
)

func main() {
	app := &cli.App{}
	root := cli.NewRootCmd(app)
	root.AddCommand(newViewCmd(app))
	os.Exit(cli.Execute(root))
}
