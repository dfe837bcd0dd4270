// SPDX-License-Identifier: MIT

// Command digitile serves, draws or dumps a curvelet digital tile.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
