package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <routes.yaml> <path>",
		Short: "Search a routing table for a path and print the match",
		Args:  cobra.ExactArgs(2),
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

			m := newPathMatcher(e)
			res := m.Match(args[1])
			if !res.found {
				cliLog.Info("no match", "path", args[1])
				fmt.Println(missStyle.Render("no match"))
				return nil
			}
			cliLog.Info("match", "path", args[1], "value", res.value)

			fmt.Println(matchStyle.Render("match"))
			fmt.Println(field("value", res.value))
			for _, p := range res.params {
				fmt.Println(field(p.key, p.value))
			}
			if res.hasWildcard {
				fmt.Println(field("wildcard", res.wildcard))
			}
			return nil
		},
	}
}
