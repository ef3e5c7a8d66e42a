package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/chefling/framework/container"
)

func TestMain(m *testing.M) {
	// plain output regardless of the terminal running the tests
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, logs bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDemo_ResolvesKitchenGraph(t *testing.T) {
	out, err := run(t, "demo", "--env-file", "testdata/none.env")
	require.NoError(t, err)

	assert.Contains(t, out, "chefling specials")
	assert.Contains(t, out, "margherita")
	assert.Contains(t, out, "Kitchen → Restaurant")
	assert.Contains(t, out, "circular dependency detected: SousChef")
	assert.NotContains(t, out, "✘")
}

func TestDemo_RejectsBadManifest(t *testing.T) {
	_, err := run(t, "demo", "--manifest", "testdata/wrong.toml")
	assert.ErrorIs(t, err, container.ErrInvalidSubTypeMapping)

	_, err = run(t, "demo", "--manifest", "testdata/missing.yaml")
	assert.ErrorContains(t, err, "missing.yaml")
}

func TestTypes_ListsGraph(t *testing.T) {
	out, err := run(t, "types")
	require.NoError(t, err)

	assert.Contains(t, out, "Restaurant")
	assert.Contains(t, out, `needs   Chef, "Menu"`)
	assert.Contains(t, out, "extends Kitchen")
}

func TestDefaultManifest_NamesKnownTypes(t *testing.T) {
	t.Parallel()

	m, err := demoManifest("")
	require.NoError(t, err)

	reg := kitchenRegistry()
	for _, b := range m.Bindings {
		_, ok := reg.Lookup(b.Type)
		assert.True(t, ok, b.Type)
		_, ok = reg.Lookup(b.To)
		assert.True(t, ok, b.To)
	}
}
