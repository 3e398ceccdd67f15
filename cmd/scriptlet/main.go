// Command scriptlet resolves, binds and runs filter-rule scriptlets.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/scriptlet/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
