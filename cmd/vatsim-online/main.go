// Command vatsim-online shows the VATSIM pilots near an airport, sorted by
// how many hours they have flown on the network.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
