package main

import (
	"os"

	"github.com/leasebook/leasebook/cmd/leasectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
