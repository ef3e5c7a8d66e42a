package main

import (
	_ "embed"
	"fmt"

	"github.com/km-arc/chefling/framework/config"
	"github.com/km-arc/chefling/framework/container"
	"github.com/km-arc/chefling/framework/providers"
)

// ── Kitchen graph ─────────────────────────────────────────────────────────────

// Oven is lit when created and switched off when the container evicts it.
type Oven struct{ Lit bool }

func NewOven() *Oven { return &Oven{} }

func (o *Oven) OnCreate()  { o.Lit = true }
func (o *Oven) OnDestroy() { o.Lit = false }

type Pantry struct{ Stock map[string]int }

func NewPantry() *Pantry {
	return &Pantry{Stock: map[string]int{"tomato": 12, "basil": 4, "flour": 8}}
}

func (p *Pantry) OnDestroy() { clear(p.Stock) }

type Chef struct {
	Oven   *Oven
	Pantry *Pantry
}

func NewChef(o *Oven, p *Pantry) *Chef { return &Chef{Oven: o, Pantry: p} }

func (c *Chef) Cook(dish string) string {
	if !c.Oven.Lit {
		return dish + " (cold)"
	}
	return dish
}

type Menu struct {
	Title  string
	Dishes []string
}

func NewMenu() *Menu { return &Menu{Title: "house menu", Dishes: []string{"bread"}} }

// Kitchen is the abstraction the demo resolves; Restaurant implements it.
type Kitchen interface {
	Serve() []string
}

type Restaurant struct {
	Chef *Chef
	Menu *Menu
}

func NewRestaurant(c *Chef, m *Menu) *Restaurant { return &Restaurant{Chef: c, Menu: m} }

func (r *Restaurant) Serve() []string {
	out := make([]string, len(r.Menu.Dishes))
	for i, dish := range r.Menu.Dishes {
		out[i] = r.Chef.Cook(dish)
	}
	return out
}

var (
	ovenType   = container.MustDefine("Oven", NewOven)
	pantryType = container.MustDefine("Pantry", NewPantry)
	chefType   = container.MustDefine("Chef", NewChef,
		container.Needs(container.Ref(ovenType), container.Ref(pantryType)))
	menuType    = container.MustDefine("Menu", NewMenu)
	kitchenType = container.MustDefine("Kitchen", func() Kitchen { return nil })

	// Menu is referenced by name and found through the Loader.
	restaurantType = container.MustDefine("Restaurant", NewRestaurant,
		container.Needs(container.Ref(chefType), container.Named("Menu")),
		container.Extends(kitchenType))
)

// kitchenTypes lists the graph in declaration order.
var kitchenTypes = []*container.Type{ovenType, pantryType, chefType, menuType, kitchenType, restaurantType}

func kitchenRegistry() *container.TypeRegistry {
	return container.NewTypeRegistry().MustRegister(kitchenTypes...)
}

//go:embed kitchen.yaml
var defaultManifest []byte

// ── KitchenServiceProvider ────────────────────────────────────────────────────

// KitchenServiceProvider maps the menu through a factory that reads the
// application name from the config.
type KitchenServiceProvider struct {
	container.BaseProvider
}

func (p *KitchenServiceProvider) Register(app *container.Container) error {
	return app.MapFactory(menuType, func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, providers.ConfigType)
		if err != nil {
			return nil, err
		}
		return &Menu{
			Title:  fmt.Sprintf("%s specials", cfg.App.Name),
			Dishes: []string{"margherita", "focaccia", "panzanella"},
		}, nil
	})
}
