package spritemap

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/esimov/spritemap/utils"
	"github.com/esimov/spritemap/vector"
)

// DefaultImportScale is the factor applied to the declared size of imported icons.
const DefaultImportScale = 12

// Importer fetches a gzipped tarball of icons and extracts it into a set directory.
// Only the svg files of an "icons" directory and the license file are kept.
type Importer struct {
	URL  string
	Dest string
	// Scale multiplies the declared width and height of every icon.
	Scale float64
}

// Import downloads and extracts the archive, returning the number of icons written.
func (im *Importer) Import(ctx context.Context) (int, error) {
	if !utils.IsValidUrl(im.URL) {
		return 0, fmt.Errorf("invalid archive url %q", im.URL)
	}
	f, err := utils.Download(ctx, im.URL, "application/x-gzip", "application/gzip")
	if f != nil {
		defer os.Remove(f.Name())
		defer f.Close()
	}
	if err != nil {
		return 0, err
	}
	return im.Extract(f)
}

// Extract reads a gzipped tarball from r into the destination directory.
func (im *Importer) Extract(r io.Reader) (int, error) {
	scale := im.Scale
	if scale == 0 {
		scale = DefaultImportScale
	}
	if err := os.MkdirAll(im.Dest, 0755); err != nil {
		return 0, fmt.Errorf("unable to create the destination directory: %w", err)
	}

	zr, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("invalid archive: %w", err)
	}
	defer zr.Close()

	var n int
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("invalid archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := path.Base(hdr.Name)
		dir := path.Base(path.Dir(hdr.Name))

		switch {
		case name == licenseFile:
			data, err := io.ReadAll(tr)
			if err != nil {
				return n, err
			}
			if err := writeBytes(filepath.Join(im.Dest, licenseFile), data); err != nil {
				return n, err
			}
		case dir == "icons" && strings.EqualFold(path.Ext(name), ".svg"):
			data, err := io.ReadAll(tr)
			if err != nil {
				return n, err
			}
			scaled, err := vector.Scale(data, scale)
			if err != nil {
				return n, fmt.Errorf("%s: %w", hdr.Name, err)
			}
			if err := writeBytes(filepath.Join(im.Dest, name), scaled); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

// Dist packs the spritemap images and metadata of dir into a gzipped tarball
// written to dest. The files are stored under a "sprites/" prefix.
func Dist(dir, dest string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("unable to read the spritemap directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.Type().IsRegular() && utils.Contains([]string{".png", ".bmp", ".json"}, ext) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no spritemaps found in %s", dir)
	}
	sort.Strings(files)

	err = writeFile(dest, func(w io.Writer) error {
		zw := gzip.NewWriter(w)
		tw := tar.NewWriter(zw)
		for _, name := range files {
			if err := addFile(tw, filepath.Join(dir, name), "sprites/"+name); err != nil {
				return err
			}
		}
		if err := tw.Close(); err != nil {
			return err
		}
		return zw.Close()
	})
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

func addFile(tw *tar.Writer, src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(fi, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}

func writeBytes(path string, data []byte) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
