package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version is the semantic version (set via -ldflags).
var Version = "dev"

type rootOptions struct {
	envFiles []string
	manifest string
}

// newRootCmd builds the command tree. Every call returns a fresh tree so
// tests can run commands in isolation.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "chefling",
		Short: "Resolve object graphs from types and mapping rules",
		Long: TitleStyle.Render("chefling") + SubtitleStyle.Render(" - a dependency resolution engine") + `

chefling builds object graphs from constructor Types, instance, factory and
subtype mappings, detecting circular dependencies as it goes.

` + SubtitleStyle.Render("Examples:") + `
  chefling demo                          Resolve the kitchen graph
  chefling demo --manifest bindings.toml Apply other subtype bindings
  chefling types                         List the kitchen Types`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default .env)")
	root.PersistentFlags().StringVar(&opts.manifest, "manifest", "", "bindings manifest (.yaml or .toml)")

	root.AddCommand(newDemoCmd(opts))
	root.AddCommand(newTypesCmd())
	return root
}

func execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		newRootCmd(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	)
}
