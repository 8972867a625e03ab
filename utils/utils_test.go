package utils

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtils_MinMax(t *testing.T) {
	assert.Equal(t, 1, Min(1, 2))
	assert.Equal(t, 1, Min(2, 1))
	assert.Equal(t, 2, Max(1, 2))
	assert.Equal(t, 2.5, Max(2.5, -1))
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 5, Clamp(9, 0, 5))
	assert.Equal(t, 0, Clamp(-9, 0, 5))
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
}

func TestUtils_DecorateText(t *testing.T) {
	assert.Equal(t, ErrorColor+"boom"+DefaultColor, DecorateText("boom", ErrorMessage))

	Colored = false
	defer func() { Colored = true }()
	assert.Equal(t, "boom", DecorateText("boom", ErrorMessage))
}

func TestUtils_FormatTime(t *testing.T) {
	assert.Equal(t, "0.00s", FormatTime(0))
	assert.Equal(t, "1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal(t, "2m 3.00s", FormatTime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1h 0m 5.25s", FormatTime(time.Hour+5250*time.Millisecond))
	assert.Equal(t, "1h 1m 1.00s", FormatTime(time.Hour+time.Minute+time.Second))
	assert.Equal(t, "2d 0h 0m 0.00s", FormatTime(48*time.Hour))
	assert.Equal(t, "-1.50s", FormatTime(-1500*time.Millisecond))
}

func TestUtils_DecorateTextTypes(t *testing.T) {
	for typ, col := range map[MessageType]string{
		DefaultMessage: DefaultColor,
		SuccessMessage: SuccessColor,
		ErrorMessage:   ErrorColor,
		StatusMessage:  StatusColor,
	} {
		assert.Equal(t, col+"x"+DefaultColor, DecorateText("x", typ))
	}
	// unknown message types are left undecorated
	assert.Equal(t, "x", DecorateText("x", MessageType(42)))
}

func TestUtils_SpinnerMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "loading", time.Millisecond, false)
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.SetMessage("packing 2x")
	assert.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return strings.Contains(buf.String(), "packing 2x")
	}, time.Second, time.Millisecond)
	s.Stop()
	assert.Contains(t, buf.String(), "loading")
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	assert.True(t, IsValidUrl("https://github.com/mapbox/maki/tarball/main"))
	assert.False(t, IsValidUrl("iconsets/icon"))
}

func gzipped(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestUtils_ShouldDownloadArchive(t *testing.T) {
	body := gzipped(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	f, err := Download(context.Background(), srv.URL, "application/x-gzip")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	ctype, err := DetectContentType(f)
	require.NoError(t, err)
	assert.Equal(t, "application/x-gzip", ctype)
}

func TestUtils_DownloadRejectsUnexpectedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not found</body></html>"))
	}))
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL, "application/x-gzip")
	assert.Error(t, err)
}

func TestUtils_DownloadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "404")
}

func TestUtils_DetectContentType(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "icon.svg")
	require.NoError(t, os.WriteFile(fname, []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), 0644))
	f, err := os.Open(fname)
	require.NoError(t, err)
	defer f.Close()

	ctype, err := DetectContentType(f)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ctype, "text/"), "got %s", ctype)

	// the read pointer is rewound
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<svg"))
}

func TestUtils_Spinner(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "packing", time.Millisecond, false)
	s.StopMsg = "done"
	s.Start()
	s.Start() // no-op while running
	time.Sleep(5 * time.Millisecond)
	s.Stop()
	s.Stop() // no-op once stopped

	assert.Contains(t, buf.String(), "done")
}
