package main

import (
	"os"

	"github.com/locvowork/acme_hr_directory/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
