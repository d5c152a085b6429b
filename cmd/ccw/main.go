package main

import (
	"os"

	"github.com/dshills/ccw/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
