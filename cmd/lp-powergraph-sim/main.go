// Command lp-powergraph-sim runs the sequential driver stand-in. It takes the same arguments
// as the PowerGraph driver binary, so it can be configured as the engine binary.
package main

import (
	"os"

	"github.com/ScottSallinen/lollipop-powergraph/engine"
)

func main() {
	os.Exit(engine.Main(os.Args[1:]))
}
