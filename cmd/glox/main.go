package main

import (
	"fmt"
	"os"

	"github.com/sdecook/glox/cmd/glox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(cmd.ExitCode())
}
