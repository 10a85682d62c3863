package main

import (
	"os"

	"github.com/solhart/momentum/cmd/momentum/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
