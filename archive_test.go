package spritemap

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/spritemap/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(zw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "maki-1a2b/", Typeflag: tar.TypeDir, Mode: 0755}))
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(body))}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

var makiTarball = map[string]string{
	"maki-1a2b/icons/square.svg": squareIcon,
	"maki-1a2b/icons/README.md":  "# icons",
	"maki-1a2b/other/skip.svg":   squareIcon,
	"maki-1a2b/LICENSE.txt":      "CC0",
}

func TestArchive_Extract(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "maki")
	im := &Importer{Dest: dest}
	n, err := im.Extract(bytes.NewReader(makeTarball(t, makiTarball)))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(dest, "square.svg"))
	require.NoError(t, err)
	w, h, err := vector.Size(data)
	require.NoError(t, err)
	assert.Equal(t, 15.0*DefaultImportScale, w)
	assert.Equal(t, 15.0*DefaultImportScale, h)

	license, err := os.ReadFile(filepath.Join(dest, licenseFile))
	require.NoError(t, err)
	assert.Equal(t, "CC0", string(license))

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestArchive_ExtractInvalid(t *testing.T) {
	im := &Importer{Dest: t.TempDir()}
	_, err := im.Extract(bytes.NewReader([]byte("not a tarball")))
	assert.Error(t, err)

	_, err = im.Extract(bytes.NewReader(makeTarball(t, map[string]string{
		"maki/icons/broken.svg": `<svg width="15"/>`,
	})))
	assert.ErrorIs(t, err, vector.ErrUnsizable)
}

func TestArchive_Import(t *testing.T) {
	tarball := makeTarball(t, makiTarball)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tarball)
	}))
	defer ts.Close()

	dest := t.TempDir()
	im := &Importer{URL: ts.URL + "/tarball/main", Dest: dest, Scale: 2}
	n, err := im.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(filepath.Join(dest, "square.svg"))
	require.NoError(t, err)
	w, _, err := vector.Size(data)
	require.NoError(t, err)
	assert.Equal(t, 30.0, w)

	_, err = (&Importer{URL: "not a url", Dest: dest}).Import(context.Background())
	assert.Error(t, err)
}

func TestArchive_Dist(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"sprites1x.png", "sprites1x.json", "sprites2x.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(name), 0644))
	}
	dest := filepath.Join(t.TempDir(), "sprites.tar.gz")
	n, err := Dist(src, dest)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(zr)

	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		assert.Equal(t, filepath.Base(hdr.Name), string(body))
		names = append(names, hdr.Name)
	}
	assert.Equal(t, []string{"sprites/sprites1x.json", "sprites/sprites1x.png", "sprites/sprites2x.png"}, names)

	_, err = Dist(t.TempDir(), dest)
	assert.Error(t, err)
}
