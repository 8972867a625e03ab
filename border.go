package spritemap

// The border conventions shared by the compositor and the metadata emitter.
// Every sprite reserves a transparent border around its drawn pixels so that
// anti-aliasing and the blurred glow never bleed into a neighbour.

// Border returns the offset of the drawn icon inside its padded box, in pixels.
func Border(factor int) int { return 2 * factor }

// Padding returns the total extra width (or height) of a padded box: one border on each side.
func Padding(factor int) int { return 2 * Border(factor) }

// GlowMargin returns how far the glow halo extends beyond the icon. It is the radius of
// the blur applied to the glow layer and the margin exported for glowing sprites.
func GlowMargin(factor int) int { return Border(factor) / 2 }
