// Command featlink-manpage writes featlink(1) and one page per subcommand
// into the directory given as its only argument, or the current directory.
package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/featlink/internal/cli"
	"github.com/arthur-debert/featlink/internal/version"
	"github.com/spf13/cobra/doc"
)

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "featlink-manpage: %v\n", err)
		os.Exit(1)
	}

	header := &doc.GenManHeader{
		Title:   "FEATLINK",
		Section: "1",
		Source:  "featlink " + version.Version,
		Manual:  "Build Configuration Manual",
	}
	if err := doc.GenManTree(cli.NewRootCmd(), header, dir); err != nil {
		fmt.Fprintf(os.Stderr, "featlink-manpage: %v\n", err)
		os.Exit(1)
	}
}
