// Command stellagc is a small demonstration harness around the
// internal/gc collector. It is not the Stella mutator: it does not
// parse or evaluate Stella source, only drives the allocator with
// synthetic objects so the collector can be exercised and its stats
// inspected from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/netos23/stella-gc/cmd/stellagc/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
