// Command clktree inspects and drives the simulated clock trees of reference
// boards.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/clocktree/cmd/clktree/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
