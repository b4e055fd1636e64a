package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/ryantrega99/moda-fashion-ai/pkg/domain"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the studio tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tBADGE\tASPECT")
			for _, p := range domain.Presets() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, p.Badge, p.AspectRatio)
			}
			return tw.Flush()
		},
	}
}
