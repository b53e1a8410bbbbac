package main

import (
	"os"

	"github.com/arjunrk/govdoc-intel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
