// Package main is the entry point for ledgerport-sync CLI.
package main

import (
	"os"

	"github.com/ledgerport/ledgerport-go/cmd/ledgerport-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
