package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/km-arc/chefling/framework/container"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the kitchen Types with their dependencies and bases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, t := range kitchenTypes {
				fmt.Fprintln(out, formatType(t))
			}
			return nil
		},
	}
}

func formatType(t *container.Type) string {
	var b strings.Builder
	b.WriteString(TypeStyle.Render(t.Name()))
	b.WriteString(SubtitleStyle.Render(" " + t.Produces().String()))

	if deps := t.Dependencies(); len(deps) > 0 {
		names := make([]string, len(deps))
		for i, d := range deps {
			if d.Type() == nil {
				names[i] = fmt.Sprintf("%q", d.Name())
			} else {
				names[i] = d.Name()
			}
		}
		b.WriteString("\n  needs   " + strings.Join(names, ", "))
	}
	if bases := t.Bases(); len(bases) > 0 {
		names := make([]string, len(bases))
		for i, base := range bases {
			names[i] = base.Name()
		}
		b.WriteString("\n  extends " + strings.Join(names, ", "))
	}
	return b.String()
}
