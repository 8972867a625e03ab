package spritemap

import (
	"encoding/json"
	"fmt"
	"os"
)

// Entry locates a sprite inside the spritemap image.
type Entry struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	X          int `json:"x"`
	Y          int `json:"y"`
	PixelRatio int `json:"pixelRatio"`
}

// Metadata maps the sprite names to their entries.
type Metadata map[string]Entry

// Emit computes the metadata of the packed sprites from their boxes alone.
// Glowing sprites are enlarged by the glow margin on every side.
func Emit(sprites []*Sprite, factor int) Metadata {
	meta := make(Metadata, len(sprites))
	for _, s := range sprites {
		o := s.Origin()
		w, h := s.Tile()
		e := Entry{Width: w, Height: h, X: o.X, Y: o.Y, PixelRatio: factor}
		if s.Glow != "" {
			m := GlowMargin(factor)
			e.Width += 2 * m
			e.Height += 2 * m
			e.X -= m
			e.Y -= m
		}
		meta[s.Name] = e
	}
	return meta
}

// MarshalIndent encodes the metadata as tab indented JSON, keys in lexical order.
func (m Metadata) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(m, "", "\t")
}

// ReadMetadata decodes a metadata file.
func ReadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
