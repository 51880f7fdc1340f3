package main

import (
	"os"

	"github.com/alexanderjulianmartinez/schemawatch/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
