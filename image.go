package spritemap

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned for image extensions other than .png and .bmp.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Encode writes the image in the format given by the file extension ext.
// Both supported formats are lossless; PNG is the default.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case "", ".png":
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// writeFile writes the output of fn to path through a temporary file of the same
// directory which is renamed into place once complete. On failure path is left as it was.
func writeFile(path string, fn func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("unable to move the file into place: %w", err)
	}
	return nil
}

// rename moves a file into place.
var rename = os.Rename

// commit renames a set of temporary files to their destinations. Either every
// destination is replaced or all of them keep their previous content.
type commit struct {
	files []pending
}

type pending struct {
	tmp, dst string
	// backup holds the previous content of dst while the commit is applied.
	backup string
	moved  bool
}

// stage writes the output of fn to a temporary file next to path.
func (c *commit) stage(path string, fn func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	c.files = append(c.files, pending{tmp: tmp.Name(), dst: path})

	if err := fn(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	return tmp.Close()
}

// apply moves every staged file into place. The previous destinations are set
// aside first and restored if any of the files cannot be moved.
func (c *commit) apply() error {
	for i := range c.files {
		f := &c.files[i]
		if _, err := os.Lstat(f.dst); err == nil {
			f.backup = f.tmp + ".old"
			if err := rename(f.dst, f.backup); err != nil {
				f.backup = ""
				c.rollback()
				return fmt.Errorf("unable to set aside %s: %w", f.dst, err)
			}
		}
		if err := rename(f.tmp, f.dst); err != nil {
			c.rollback()
			return fmt.Errorf("unable to move the file into place: %w", err)
		}
		f.moved = true
	}
	for _, f := range c.files {
		if f.backup != "" {
			os.Remove(f.backup)
		}
	}
	c.files = nil
	return nil
}

// rollback restores the destinations as they were before apply.
func (c *commit) rollback() {
	for i := range c.files {
		f := &c.files[i]
		if f.moved && f.backup == "" {
			os.Remove(f.dst)
		}
		if f.backup != "" {
			os.Rename(f.backup, f.dst)
			f.backup = ""
		}
		f.moved = false
	}
}

// discard removes the staged files which were not moved into place.
func (c *commit) discard() {
	for _, f := range c.files {
		if !f.moved {
			os.Remove(f.tmp)
		}
	}
	c.files = nil
}
