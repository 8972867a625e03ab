package spritemap

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/esimov/spritemap/vector"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Variant is one concrete rendition of an icon: a theme, a nominal size and the
// recolored vector sized to that nominal size.
type Variant struct {
	SetID  string
	IconID string
	Theme  string
	Size   int
	Name   string
	// Glow is the color of the halo drawn beneath the icon, empty for none.
	Glow   string
	Vector vector.Sized
}

// SpriteName returns the unique name of a variant.
func SpriteName(set, theme, icon string, size int) string {
	return strings.Join([]string{set, theme, icon, strconv.Itoa(size)}, "-")
}

// Expander turns icon sources into the variants requested by the config.
type Expander struct {
	Config  *Config
	Workers int
	// SkipInvalid drops the icons which fail to expand instead of aborting.
	SkipInvalid bool
	Logger      *slog.Logger
}

// Expand returns every (theme, size) variant of the sources. The variants are ordered
// by set, icon, then theme and size in config order; sources are expected sorted by
// set and id.
func (e *Expander) Expand(ctx context.Context, sources []IconSource) ([]Variant, error) {
	groups := make([][]Variant, len(sources))
	failed := make([]error, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(e.Workers))
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vs, err := e.expandIcon(src)
			if err != nil {
				err = &SourceError{Set: src.SetID, Icon: src.ID, Err: err}
				if !e.SkipInvalid {
					return err
				}
				failed[i] = err
				return nil
			}
			groups[i] = vs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var variants []Variant
	seen := make(map[string]bool)
	for i, vs := range groups {
		if failed[i] != nil {
			e.logger().Warn("skipping icon", "set", sources[i].SetID, "icon", sources[i].ID, "error", failed[i])
			continue
		}
		for _, v := range vs {
			if seen[v.Name] {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateSprite, v.Name)
			}
			seen[v.Name] = true
			variants = append(variants, v)
		}
	}
	e.logger().Debug("expanded variants", "icons", len(sources), "variants", len(variants))
	return variants, nil
}

// expandIcon recolors the source once per theme and resizes it once per size.
func (e *Expander) expandIcon(src IconSource) ([]Variant, error) {
	set, ok := e.Config.Sets[src.SetID]
	if !ok {
		return nil, fmt.Errorf("unknown set %q", src.SetID)
	}
	buf, err := vector.Normalize(src.Buffer)
	if err != nil {
		return nil, err
	}

	variants := make([]Variant, 0, len(e.Config.Themes)*len(set.Sizes))
	for _, theme := range e.Config.Themes {
		palette, ok := set.Palette(src.ID, theme)
		if !ok {
			return nil, fmt.Errorf("%w for theme %q", ErrNoColor, theme)
		}
		colored, err := vector.Recolor(buf, palette)
		if err != nil {
			return nil, err
		}
		for _, size := range set.Sizes {
			sized, err := vector.Resize(colored, float64(size))
			if err != nil {
				return nil, err
			}
			variants = append(variants, Variant{
				SetID:  src.SetID,
				IconID: src.ID,
				Theme:  theme,
				Size:   size,
				Name:   SpriteName(src.SetID, theme, src.ID, size),
				Glow:   set.GlowColor(theme),
				Vector: sized,
			})
		}
	}
	return variants, nil
}

func (e *Expander) logger() *slog.Logger {
	if e.Logger == nil {
		return discardLogger
	}
	return e.Logger
}
