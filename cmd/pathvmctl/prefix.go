package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPrefixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefix <routes.yaml> <prefix>",
		Short: "List the values of every live template reachable under a static prefix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRouteTable(args[0])
			if err != nil {
				return err
			}
			e, err := buildEngine(rt)
			if err != nil {
				return err
			}

			if !e.IsPrefix(args[1]) {
				fmt.Println(missStyle.Render("prefix not reachable via static edges"))
				return nil
			}

			values := e.PrefixSearch(args[1])
			if len(values) == 0 {
				fmt.Println(missStyle.Render("no live templates under prefix"))
				return nil
			}
			for _, v := range values {
				fmt.Println(valueStyle.Render(v))
			}
			return nil
		},
	}
}
