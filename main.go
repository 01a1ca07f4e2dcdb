package main

import (
	"os"

	"github.com/dutymgr/dutymgr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
