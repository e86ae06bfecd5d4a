package main

import (
	"os"

	"github.com/avelard/roadcast/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
