package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	noop := func(context.Context, Args) (Result, error) { return Result{}, nil }

	require.NoError(t, r.Register(Tool{Name: "b", Run: noop}))
	require.NoError(t, r.Register(Tool{Name: "a", Run: noop}))

	assert.Error(t, r.Register(Tool{Name: "a", Run: noop}))
	assert.Error(t, r.Register(Tool{Name: "", Run: noop}))
	assert.Error(t, r.Register(Tool{Name: "c"}))

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("c"))
}

func TestArgsString(t *testing.T) {
	a := Args{"query": "hotdog", "n": 3.0, "nil": nil}
	assert.Equal(t, "hotdog", a.String("query"))
	assert.Equal(t, "3", a.String("n"))
	assert.Equal(t, "", a.String("nil"))
	assert.Equal(t, "", a.String("missing"))
}

func TestSearchWeb(t *testing.T) {
	var opened string
	orig := openURL
	openURL = func(u string) error { opened = u; return nil }
	t.Cleanup(func() { openURL = orig })

	r := NewRegistry()
	require.NoError(t, Builtins(r, t.TempDir()))

	tool, ok := r.Get(SearchWeb)
	require.True(t, ok)
	assert.True(t, tool.Takes("query"))

	res, err := tool.Run(context.Background(), Args{"query": "hotdog photos"})
	require.NoError(t, err)
	assert.Equal(t, "https://duckduckgo.com/?q=hotdog+photos", opened)
	assert.Equal(t, "Searching the web for hotdog photos.", res.Text)

	_, err = tool.Run(context.Background(), Args{})
	assert.Error(t, err)
}

func TestSearchWebBrowserFailure(t *testing.T) {
	orig := openURL
	openURL = func(string) error { return errors.New("no browser") }
	t.Cleanup(func() { openURL = orig })

	_, err := searchWeb(context.Background(), Args{"query": "x"})
	assert.Error(t, err)
}

func TestScreenshotHasNoParams(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, Builtins(r, ""))

	tool, ok := r.Get(TakeScreenshot)
	require.True(t, ok)
	assert.Empty(t, tool.Params)
}
