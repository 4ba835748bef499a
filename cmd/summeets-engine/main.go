// Command summeets-engine is a thin wiring demo for the workflow
// engine: it is not a front-end, just enough cobra surface to drive one
// run end to end and inspect job history, grounded on the teacher's
// example/main.go (signal-aware context, progress channel consumer)
// generalized into subcommands the way hyprvoice's cmd/hyprvoice/main.go
// and guiyumin-vget's CLI are structured.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "summeets-engine",
		Short: "Meeting summary workflow engine",
	}
	root.AddCommand(runCmd(), jobsCmd())
	return root
}
