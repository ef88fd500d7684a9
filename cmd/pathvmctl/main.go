// Command pathvmctl is a small admin CLI around a pathvm engine loaded from a YAML routing
// table. It exists for inspecting and exercising a route set offline; it is not part of the
// matching engine itself and never touches HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pathvmctl",
		Short: "Inspect and query a pathvm routing table",
		Long: "pathvmctl loads a YAML routing table (template: label pairs) into a pathvm\n" +
			"engine and lets you run match/prefix/debug queries against it without standing\n" +
			"up the rest of the request dispatcher.",
	}
	root.AddCommand(newMatchCmd())
	root.AddCommand(newPrefixCmd())
	root.AddCommand(newDebugCmd())
	root.AddCommand(newInsertCmd())
	return root
}
