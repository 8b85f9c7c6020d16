package main

import (
	"os"

	"github.com/sekka-mobility/forecast/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
