package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/chefling/framework/container"
	"github.com/km-arc/chefling/framework/manifest"
)

type kitchen interface{ Serve() string }

type chef struct{ meals int }

type restaurant struct{ chef *chef }

func (r *restaurant) Serve() string { return "soup" }

type fixtures struct {
	reg                       *container.TypeRegistry
	kitchen, restaurant, chef *container.Type
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()

	chefType := container.MustDefine("Chef", func() *chef { return &chef{} })
	kitchenType := container.MustDefine("Kitchen", func() kitchen { return nil })
	restaurantType := container.MustDefine("Restaurant",
		func(c *chef) *restaurant { return &restaurant{chef: c} },
		container.Needs(container.Ref(chefType)), container.Extends(kitchenType))

	reg := container.NewTypeRegistry().MustRegister(chefType, kitchenType, restaurantType)
	return fixtures{reg: reg, kitchen: kitchenType, restaurant: restaurantType, chef: chefType}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]manifest.Format{
		"bindings.yaml": manifest.FormatYAML,
		"bindings.YML":  manifest.FormatYAML,
		"dir/app.toml":  manifest.FormatTOML,
	} {
		got, err := manifest.FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := manifest.FormatFromPath("bindings.json")
	assert.Error(t, err)
}

func TestLoad_YAMLAndTOMLAgree(t *testing.T) {
	t.Parallel()

	fromYAML, err := manifest.Load("testdata/kitchen.yaml")
	require.NoError(t, err)
	fromTOML, err := manifest.Load("testdata/kitchen.toml")
	require.NoError(t, err)

	want := &manifest.Manifest{
		Bindings: []manifest.Binding{{Type: "Kitchen", To: "Restaurant"}},
		Eager:    []string{"Chef"},
	}
	assert.Equal(t, want, fromYAML)
	assert.Equal(t, want, fromTOML)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := manifest.Load("testdata/missing.yaml")
	assert.ErrorContains(t, err, "missing.yaml")

	_, err = manifest.Load("testdata/incomplete.yaml")
	assert.ErrorContains(t, err, "binding 0")

	_, err = manifest.Load("testdata/broken.toml")
	assert.ErrorContains(t, err, "toml unmarshal")
}

func TestParse_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := manifest.Parse([]byte("{}"), "json")
	assert.ErrorContains(t, err, "json")
}

func TestValidate_ReportsEveryEmptyName(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{
		Bindings: []manifest.Binding{{Type: "Kitchen"}, {To: "Restaurant"}},
		Eager:    []string{""},
	}

	err := m.Validate()
	assert.ErrorContains(t, err, "binding 0")
	assert.ErrorContains(t, err, "binding 1")
	assert.ErrorContains(t, err, "eager 0")
}

func TestApply_MapsBindingsAndResolvesEager(t *testing.T) {
	t.Parallel()

	f := newFixtures(t)
	m, err := manifest.Parse([]byte("bindings:\n  - {type: Kitchen, to: Restaurant}\neager: [Chef]\n"), manifest.FormatYAML)
	require.NoError(t, err)

	c := container.New()
	require.NoError(t, m.Apply(c, f.reg))

	assert.True(t, c.Has(f.chef), "eager Types are resolved")

	k, err := container.Resolve[kitchen](c, f.kitchen)
	require.NoError(t, err)
	assert.Equal(t, "soup", k.Serve())

	r, err := container.Resolve[*restaurant](c, f.restaurant)
	require.NoError(t, err)
	assert.Same(t, r, k)

	ch, err := container.Resolve[*chef](c, f.chef)
	require.NoError(t, err)
	assert.Same(t, ch, r.chef)
}

func TestApply_UnknownName(t *testing.T) {
	t.Parallel()

	f := newFixtures(t)
	m := &manifest.Manifest{Bindings: []manifest.Binding{{Type: "Kitchen", To: "Bistro"}}}

	err := m.Apply(container.New(), f.reg)
	assert.ErrorContains(t, err, `binding 0: unknown type "Bistro"`)

	m = &manifest.Manifest{Eager: []string{"Waiter"}}
	err = m.Apply(container.New(), f.reg)
	assert.ErrorContains(t, err, `unknown type "Waiter"`)
}

func TestApply_KeepsContainerReasons(t *testing.T) {
	t.Parallel()

	f := newFixtures(t)

	// wrong direction
	m := &manifest.Manifest{Bindings: []manifest.Binding{{Type: "Restaurant", To: "Kitchen"}}}
	err := m.Apply(container.New(), f.reg)
	assert.ErrorIs(t, err, container.ErrInvalidSubTypeMapping)

	// the same binding twice
	m = &manifest.Manifest{Bindings: []manifest.Binding{
		{Type: "Kitchen", To: "Restaurant"},
		{Type: "Kitchen", To: "Restaurant"},
	}}
	c := container.New()
	err = m.Apply(c, f.reg)
	assert.ErrorIs(t, err, container.ErrDuplicateMapping)
	assert.ErrorContains(t, err, "binding 1")
	assert.True(t, c.Has(f.kitchen), "earlier bindings stay applied")
}
