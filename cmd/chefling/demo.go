package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/km-arc/chefling/framework/app"
	"github.com/km-arc/chefling/framework/config"
	"github.com/km-arc/chefling/framework/container"
	"github.com/km-arc/chefling/framework/manifest"
	"github.com/km-arc/chefling/framework/providers"
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Boot an application and resolve the kitchen graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
}

func runDemo(out, logs io.Writer, opts *rootOptions) error {
	cfg := config.Load(opts.envFiles...)

	m, err := demoManifest(opts.manifest)
	if err != nil {
		return err
	}

	reg := kitchenRegistry()
	application, err := app.New(cfg,
		app.WithLogWriter(logs),
		app.WithContainerOptions(container.WithLoader(reg.Load)),
		app.WithProviders(
			&KitchenServiceProvider{},
			&providers.ManifestServiceProvider{Manifest: m, Registry: reg},
		),
	)
	if err != nil {
		return err
	}
	if err := application.Boot(); err != nil {
		return err
	}

	fmt.Fprintln(out, TitleStyle.Render(cfg.App.Name)+SubtitleStyle.Render(
		fmt.Sprintf(" %s · %s", application.Version(), application.Environment())))

	kitchen, err := container.Resolve[Kitchen](application.Container, kitchenType)
	if err != nil {
		return err
	}
	restaurant, err := container.Resolve[*Restaurant](application.Container, restaurantType)
	if err != nil {
		return err
	}
	chef, err := container.Resolve[*Chef](application.Container, chefType)
	if err != nil {
		return err
	}
	oven, err := container.Resolve[*Oven](application.Container, ovenType)
	if err != nil {
		return err
	}
	fresh, err := container.Make[*Chef](application.Container, chefType)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, sectionStyle.Render("Menu: "+restaurant.Menu.Title))
	for _, dish := range kitchen.Serve() {
		fmt.Fprintln(out, "  • "+dish)
	}

	fmt.Fprintln(out, sectionStyle.Render("Identity"))
	checks := []struct {
		label string
		ok    bool
	}{
		{"Kitchen and Restaurant share one instance", Kitchen(restaurant) == kitchen},
		{"Restaurant was cooked by the shared Chef", restaurant.Chef == chef},
		{"Chef uses the shared Oven", chef.Oven == oven},
		{"Create builds a new Chef", fresh != chef},
		{"the new Chef still gets the shared Oven", fresh.Oven == oven},
	}
	for _, c := range checks {
		fmt.Fprintf(out, "  %s %s\n", check(c.ok), c.label)
	}

	fmt.Fprintln(out, sectionStyle.Render("Resolved"))
	for _, t := range application.Types() {
		fmt.Fprintln(out, "  "+describe(application.Container, t))
	}

	fmt.Fprintln(out, sectionStyle.Render("Cycle detection"))
	fmt.Fprintln(out, "  "+cycleReport())

	application.Shutdown()
	fmt.Fprintln(out, sectionStyle.Render("Shutdown"))
	fmt.Fprintf(out, "  %s oven switched off\n", check(!oven.Lit))
	fmt.Fprintf(out, "  %s pantry emptied\n", check(len(chef.Pantry.Stock) == 0))
	return nil
}

func demoManifest(path string) (*manifest.Manifest, error) {
	if path != "" {
		return manifest.Load(path)
	}
	return manifest.Parse(defaultManifest, manifest.FormatYAML)
}

func describe(c *container.Container, t *container.Type) string {
	name := TypeStyle.Render(t.Name())
	m, ok := c.Mapping(t)
	if !ok {
		return name
	}
	if sub, ok := m.(container.SubTypeMapping); ok {
		return fmt.Sprintf("%s → %s", name, TypeStyle.Render(sub.SubType.Name()))
	}
	return fmt.Sprintf("%s (%s)", name, m.Kind())
}

// cycleReport resolves a SousChef that needs a Chef whose factory asks for
// the Sous-chef again.
func cycleReport() string {
	type sous struct{ chef *Chef }

	sousType := container.MustDefine("SousChef", func(c *Chef) *sous { return &sous{chef: c} },
		container.Needs(container.Ref(chefType)))

	c := container.New()
	_ = c.MapFactory(chefType, func(c *container.Container) (any, error) {
		if _, err := c.Get(sousType); err != nil {
			return nil, err
		}
		return NewChef(NewOven(), NewPantry()), nil
	})

	_, err := c.Get(sousType)
	var ce *container.Error
	if !errors.As(err, &ce) || ce.Reason != container.ErrCircularDependency {
		return fmt.Sprintf("%s expected a circular dependency, got %v", check(false), err)
	}
	return fmt.Sprintf("%s %s", check(true), ce.Msg)
}
