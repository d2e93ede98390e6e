// Command dbcheck checks the content of SQLite tables and the changes made
// to them.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/dbcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
