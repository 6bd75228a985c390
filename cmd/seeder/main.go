// Command seeder runs the database management commands without the server.
package main

import (
	"os"

	"github.com/locvowork/acme_hr_directory/internal/cli"
)

func main() {
	if err := cli.NewDBCommand("seeder").Execute(); err != nil {
		os.Exit(1)
	}
}
