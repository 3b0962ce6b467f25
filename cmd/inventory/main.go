// Command inventory builds an item inventory from a YAML manifest and
// reports on its contents, slots and install history.
package main

import (
	"os"

	"github.com/mesh-intelligence/inventory/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
