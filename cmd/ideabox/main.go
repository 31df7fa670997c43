// Command ideabox collects and reviews innovation ideas from the terminal.
package main

import (
	"os"

	"github.com/custodia-labs/ideabox/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(bootstrap); err != nil {
		os.Exit(1)
	}
}
