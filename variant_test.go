package spritemap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/esimov/spritemap/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareIcon = `<svg xmlns="http://www.w3.org/2000/svg" width="15" height="15">` +
	`<path d="M0 0L15 0L15 15L0 15Z"/></svg>`

func loadTestdata(t *testing.T) (*Config, []IconSource) {
	t.Helper()
	cfg, err := LoadConfig(filepath.Join("testdata", "config.json"))
	require.NoError(t, err)

	p := &DirProvider{Root: filepath.Join("testdata", "iconsets")}
	sources, err := p.Load(context.Background(), "poi", cfg.Sets["poi"])
	require.NoError(t, err)
	return cfg, sources
}

func TestSource_DirProvider(t *testing.T) {
	_, sources := loadTestdata(t)
	require.Len(t, sources, 2)

	assert.Equal(t, "square", sources[0].ID)
	assert.Equal(t, "wide", sources[1].ID)
	for _, src := range sources {
		assert.Equal(t, "poi", src.SetID)
		assert.Equal(t, "Icons are CC0.\n", src.License)
		assert.NotEmpty(t, src.Buffer)
	}
}

func TestSource_DirProviderMissing(t *testing.T) {
	p := &DirProvider{Root: t.TempDir()}
	_, err := p.Load(context.Background(), "nope", &Set{})
	assert.Error(t, err)

	// the set dir overrides the set id
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.svg"), []byte(squareIcon), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	sources, err := p.Load(context.Background(), "nope", &Set{Dir: dir})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "a", sources[0].ID)
}

func TestVariant_Expand(t *testing.T) {
	cfg, sources := loadTestdata(t)

	e := &Expander{Config: cfg}
	variants, err := e.Expand(context.Background(), sources)
	require.NoError(t, err)

	// icons x themes x sizes
	require.Len(t, variants, 2*2*2)

	var names []string
	for _, v := range variants {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{
		"poi-light-square-15", "poi-light-square-19",
		"poi-dark-square-15", "poi-dark-square-19",
		"poi-light-wide-15", "poi-light-wide-19",
		"poi-dark-wide-15", "poi-dark-wide-19",
	}, names)

	for _, v := range variants {
		assert.Equal(t, float64(v.Size), v.Vector.Height, v.Name)
		w, h, err := vector.Size(v.Vector.Buffer)
		require.NoError(t, err)
		assert.Equal(t, v.Vector.Width, w, v.Name)
		assert.Equal(t, v.Vector.Height, h, v.Name)

		if v.Theme == "dark" {
			assert.Equal(t, "#000000", v.Glow, v.Name)
		} else {
			assert.Empty(t, v.Glow, v.Name)
		}
		if v.IconID == "wide" {
			assert.InDelta(t, 2*float64(v.Size), v.Vector.Width, 1e-9, v.Name)
		}
	}

	// the icon override and the palette cycling
	byName := map[string]Variant{}
	for _, v := range variants {
		byName[v.Name] = v
	}
	doc := string(byName["poi-dark-square-15"].Vector.Buffer)
	assert.Contains(t, doc, `fill="#ff0000"`)
	assert.NotContains(t, doc, "#123456")
	assert.NotContains(t, doc, "stroke")

	doc = string(byName["poi-dark-wide-15"].Vector.Buffer)
	assert.Less(t, strings.Index(doc, `fill="#ffffff"`), strings.Index(doc, `fill="#cccccc"`))
	assert.Contains(t, string(byName["poi-light-wide-19"].Vector.Buffer), `fill="#3b3b3b"`)
}

func TestVariant_NoColor(t *testing.T) {
	cfg := &Config{
		Sets: map[string]*Set{"s": {
			Sizes:  []int{15},
			Colors: map[string]map[string]Palette{"*": {"day": {"#000"}}},
		}},
		Themes: []string{"day", "night"},
		Ratio:  map[string]float64{"1x": 1},
	}
	sources := []IconSource{{SetID: "s", ID: "a", Buffer: []byte(squareIcon)}}

	_, err := (&Expander{Config: cfg}).Expand(context.Background(), sources)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoColor))

	var se *SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "s", se.Set)
	assert.Equal(t, "a", se.Icon)
}

func TestVariant_SkipInvalid(t *testing.T) {
	cfg := &Config{
		Sets: map[string]*Set{"s": {
			Sizes:  []int{15},
			Colors: map[string]map[string]Palette{"*": {"day": {"#000"}}},
		}},
		Themes: []string{"day"},
		Ratio:  map[string]float64{"1x": 1},
	}
	sources := []IconSource{
		{SetID: "s", ID: "a", Buffer: []byte(squareIcon)},
		{SetID: "s", ID: "b", Buffer: []byte(`<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0L1 1"/></svg>`)},
		{SetID: "s", ID: "c", Buffer: []byte(squareIcon)},
	}

	_, err := (&Expander{Config: cfg}).Expand(context.Background(), sources)
	require.Error(t, err)
	assert.True(t, errors.Is(err, vector.ErrUnsizable))

	variants, err := (&Expander{Config: cfg, SkipInvalid: true}).Expand(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, "s-day-a-15", variants[0].Name)
	assert.Equal(t, "s-day-c-15", variants[1].Name)
}

func TestVariant_Duplicate(t *testing.T) {
	cfg := &Config{
		Sets: map[string]*Set{"s": {
			Sizes:  []int{15},
			Colors: map[string]map[string]Palette{"*": {"day": {"#000"}}},
		}},
		Themes: []string{"day"},
		Ratio:  map[string]float64{"1x": 1},
	}
	sources := []IconSource{
		{SetID: "s", ID: "a", Buffer: []byte(squareIcon)},
		{SetID: "s", ID: "a", Buffer: []byte(squareIcon)},
	}
	_, err := (&Expander{Config: cfg}).Expand(context.Background(), sources)
	assert.True(t, errors.Is(err, ErrDuplicateSprite))
}
