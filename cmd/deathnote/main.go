// Command deathnote keeps a persistent notebook of names and their fates.
package main

import (
	"os"

	"github.com/roach88/deathnote/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
