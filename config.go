package spritemap

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/esimov/spritemap/pack"
	"github.com/srwiley/oksvg"
)

// Wildcard is the icon id whose colors apply to every icon without its own entry.
const Wildcard = "*"

// Config describes the icon sets, the themes and the scale factors of a build.
type Config struct {
	Sets   map[string]*Set    `json:"sets"`
	Themes []string           `json:"themes"`
	Ratio  map[string]float64 `json:"ratio"`
	// Packer selects the packing algorithm: "growing" (default) or "shelf".
	Packer string `json:"packer,omitempty"`
	// Blur selects the glow blur: "stack" (default) or "gaussian".
	Blur string `json:"blur,omitempty"`
}

// Set is the configuration of one icon set.
type Set struct {
	// Dir is the source directory of the set, relative to the icon root.
	// It defaults to the set id.
	Dir string `json:"dir,omitempty"`
	// Colors maps an icon id, or the wildcard, to the palette of every theme.
	Colors map[string]map[string]Palette `json:"colors"`
	Sizes  []int                         `json:"sizes"`
	// Glow maps a theme to the color of the halo drawn beneath the icons.
	Glow map[string]string `json:"glow,omitempty"`
}

// Palette is the list of colors applied to the paths of an icon, in document order.
// In JSON it is either a single color string or an array of colors.
type Palette []string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Palette) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Palette{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("palette must be a color or a list of colors: %s", data)
	}
	*p = list
	return nil
}

// Scale is a density label together with its integral factor.
type Scale struct {
	Label  string
	Factor int
}

// LoadConfig reads and validates the JSON config file at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the config file: %w", err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a JSON config.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for missing or malformed fields.
func (c *Config) Validate() error {
	if len(c.Themes) == 0 {
		return configErr("no themes defined")
	}
	seen := make(map[string]bool, len(c.Themes))
	for _, theme := range c.Themes {
		if theme == "" {
			return configErr("empty theme name")
		}
		if seen[theme] {
			return configErr("duplicate theme %q", theme)
		}
		seen[theme] = true
	}

	if len(c.Sets) == 0 {
		return configErr("no icon sets defined")
	}
	for id, set := range c.Sets {
		if set == nil {
			return configErr("set %q: empty definition", id)
		}
		if err := set.validate(); err != nil {
			return configErr("set %q: %v", id, err)
		}
	}

	if len(c.Ratio) == 0 {
		return configErr("no ratio defined")
	}
	for label, f := range c.Ratio {
		if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
			return configErr("ratio %q: factor %v must be a positive integer", label, f)
		}
	}

	if _, err := pack.ByName(c.Packer); err != nil {
		return configErr("%v", err)
	}
	if _, ok := BlurByName(c.Blur); !ok {
		return configErr("unknown blur %q", c.Blur)
	}
	return nil
}

func (s *Set) validate() error {
	if len(s.Sizes) == 0 {
		return fmt.Errorf("no sizes defined")
	}
	for _, size := range s.Sizes {
		if size <= 0 {
			return fmt.Errorf("invalid size %d", size)
		}
	}
	for icon, themes := range s.Colors {
		for theme, palette := range themes {
			if len(palette) == 0 {
				return fmt.Errorf("colors[%q][%q]: empty palette", icon, theme)
			}
			for _, col := range palette {
				if _, err := oksvg.ParseSVGColor(col); err != nil {
					return fmt.Errorf("colors[%q][%q]: invalid color %q", icon, theme, col)
				}
			}
		}
	}
	for theme, col := range s.Glow {
		if _, err := oksvg.ParseSVGColor(col); err != nil {
			return fmt.Errorf("glow[%q]: invalid color %q", theme, col)
		}
	}
	return nil
}

// SetIDs returns the ids of the icon sets in lexical order.
func (c *Config) SetIDs() []string {
	ids := make([]string, 0, len(c.Sets))
	for id := range c.Sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Scales returns the configured scale factors ordered by label.
func (c *Config) Scales() []Scale {
	scales := make([]Scale, 0, len(c.Ratio))
	for label, f := range c.Ratio {
		scales = append(scales, Scale{Label: label, Factor: int(f)})
	}
	sort.Slice(scales, func(i, j int) bool {
		return scales[i].Label < scales[j].Label
	})
	return scales
}

// Palette resolves the colors of an icon for a theme: the icon's own entry when
// present, the set wildcard otherwise.
func (s *Set) Palette(icon, theme string) (Palette, bool) {
	if p, ok := s.Colors[icon][theme]; ok && len(p) > 0 {
		return p, true
	}
	p, ok := s.Colors[Wildcard][theme]
	return p, ok && len(p) > 0
}

// GlowColor returns the glow color of the set for a theme, or an empty string.
func (s *Set) GlowColor(theme string) string {
	return s.Glow[theme]
}
