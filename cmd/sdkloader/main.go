// Command sdkloader runs deferred SDK loader scenarios and inspects
// recorded sessions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sdkloader/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
