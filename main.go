package main

import (
	"os"

	"blagbl/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
