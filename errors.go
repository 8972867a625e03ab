package spritemap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every configuration validation error.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrNoColor is returned when neither the icon nor the set wildcard defines a color for a theme.
	ErrNoColor = errors.New("no color defined")
	// ErrDuplicateSprite is returned when two variants end up with the same name.
	ErrDuplicateSprite = errors.New("duplicate sprite name")
)

// SourceError reports an icon which could not be turned into sprite variants.
type SourceError struct {
	Set  string
	Icon string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("icon %s/%s: %v", e.Set, e.Icon, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ScaleError reports the failure of the spritemap of one scale factor.
type ScaleError struct {
	Label string
	Err   error
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("spritemap %s: %v", e.Label, e.Err)
}

func (e *ScaleError) Unwrap() error { return e.Err }

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
