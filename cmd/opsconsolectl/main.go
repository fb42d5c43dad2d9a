// opsconsolectl talks to an opsconsole server from the command line.
//
// Usage:
//
//	opsconsolectl resolve /workspaces/12/usage
//	opsconsolectl org get|set <orgId>|clear
//	opsconsolectl budget usage --scope-type WORKSPACE --scope-id 12
//	opsconsolectl budget format 0.0042
//	opsconsolectl budget month 2026-13
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
