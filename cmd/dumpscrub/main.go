package main

import (
	"os"

	"github.com/solatis/dumpscrub/cmd/dumpscrub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
