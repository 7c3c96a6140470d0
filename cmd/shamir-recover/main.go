package main

import (
	"os"

	"github.com/renproject/intshamir/cmd/shamir-recover/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
