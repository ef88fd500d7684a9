package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDebugCmd() *cobra.Command {
	var dumpTree bool

	cmd := &cobra.Command{
		Use:   "debug <routes.yaml>",
		Short: "Print trie statistics for a routing table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRouteTable(args[0])
			if err != nil {
				cliLog.Error("failed to load route table", "path", args[0], "err", err)
				return err
			}
			e, err := buildEngine(rt)
			if err != nil {
				cliLog.Error("failed to build engine", "err", err)
				return err
			}
			cliLog.Info("engine built", "templates", len(rt), "nodes", e.NodeCount(), "max_params", e.MaxParams())

			body := field("templates", fmt.Sprint(len(rt))) + "\n" +
				field("nodes", fmt.Sprint(e.NodeCount())) + "\n" +
				field("max params", fmt.Sprint(e.MaxParams()))

			fmt.Println(titleStyle.Render("pathvm engine stats"))
			fmt.Println(borderStyle.Render(body))

			if dumpTree {
				fmt.Println()
				fmt.Println(titleStyle.Render("trie"))
				fmt.Print(e.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dumpTree, "tree", false, "also dump the full arena tree")
	return cmd
}
