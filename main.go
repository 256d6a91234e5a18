package main

import (
	"os"

	"github.com/abhisek/timu/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
