// Command worldctl is a command-line client for the worldserver HTTP
// API, grounded on cmd/cli/cmd's cobra+viper shape (global --server/
// --game-id/--json/--verbose/--dryrun flags, a config file under the
// home directory) driven over HTTP instead of an in-process presenter.
package main

import (
	"fmt"
	"os"

	"github.com/turnforge/atlascore/cmd/worldctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
