package main

import (
	"os"

	"snowlens/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
