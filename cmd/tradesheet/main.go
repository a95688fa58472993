package main

import (
	"os"

	"github.com/rustyeddy/tradesheet/cmd/tradesheet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
