package main

import (
	"os"

	"github.com/ssbmax/olq-assessor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
