// Command featlink-completions writes a shell completion script to stdout.
// It runs the completion subcommand of featlink so packaging does not need a
// built featlink binary on PATH.
package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/featlink/internal/cli"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s bash|zsh|fish|powershell\n", os.Args[0])
		os.Exit(2)
	}

	root := cli.NewRootCmd()
	root.SetArgs([]string{"completion", os.Args[1]})
	root.SetOut(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "featlink-completions: %v\n", err)
		os.Exit(1)
	}
}
