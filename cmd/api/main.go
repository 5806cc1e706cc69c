// Command api serves the PDF QA http api and exposes the same operations
// on the command line and over MCP.
package main

import (
	"fmt"
	"os"

	"github.com/akolanti/pdfqa/cmd/api/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
