package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <routes.yaml> <template> <label>",
		Short: "Validate that a template compiles cleanly against an existing routing table",
		Args:  cobra.ExactArgs(3),
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

			if err := e.Insert(args[1], args[2]); err != nil {
				cliLog.Warn("template rejected", "template", args[1], "err", err)
				return fmt.Errorf("template rejected: %w", err)
			}
			cliLog.Info("template compiles cleanly", "template", args[1])
			fmt.Println(matchStyle.Render("template compiles cleanly"))
			fmt.Println(field("template", args[1]))
			return nil
		},
	}
}
