package main

import (
	"os"

	"github.com/querylift/sql-rewriter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
