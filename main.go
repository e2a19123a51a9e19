package main

import (
	"os"

	"github.com/envops/incidentd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
