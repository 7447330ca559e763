package main

import (
	"os"

	"github.com/devbin/devbin/internal/cli"
)

func main() {
	os.Exit(cli.Run("gh-api-read"))
}
