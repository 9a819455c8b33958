// Command avrovalue builds Avro value trees from data documents and
// compares, fingerprints, encodes and registers Avro schemas.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/avrovalue/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}

	// Commands print their own ExitErrors; cobra's usage errors are not.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(exitErr.Code)
}
