package main

import (
	"os"

	"github.com/cargovortex/notify-relay/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
