// Package main provides the entry point for the cell-lock CLI.
package main

import (
	"context"
	"os"

	"github.com/taurusgroup/cell-lock/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
