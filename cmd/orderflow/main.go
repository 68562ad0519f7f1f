package main

import (
	"os"

	"github.com/nodcareer/orderflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
