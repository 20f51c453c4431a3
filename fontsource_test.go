package balloon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"
)

func TestFontSourceStartsEmpty(t *testing.T) {
	fs := NewFontSource()
	if fs.Ready() {
		t.Fatal("new font source reports ready")
	}
	if fs.Font() != nil {
		t.Fatal("new font source returns a font")
	}
}

func TestFontSourceFallback(t *testing.T) {
	fs := NewFontSource()
	if err := fs.UseFallback(); err != nil {
		t.Fatal(err)
	}
	if !fs.Ready() || fs.Font() == nil {
		t.Fatal("fallback did not install a font")
	}
}

// pollUntilChanged drives Poll the way a frame loop would, waiting for the
// background load to land.
func pollUntilChanged(t *testing.T, fs *FontSource) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if fs.Poll() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no font install within deadline")
}

func TestFontSourceLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFontSource()
	fs.LoadFile(path)
	pollUntilChanged(t, fs)
	if !fs.Ready() {
		t.Fatal("loaded font not installed")
	}
}

func TestFontSourceFailedLoadInstallsFallback(t *testing.T) {
	fs := NewFontSource()
	fs.LoadFile(filepath.Join(t.TempDir(), "absent.ttf"))
	pollUntilChanged(t, fs)
	if !fs.Ready() {
		t.Fatal("failed load did not fall back")
	}
}

func TestFontSourceLastWriterWins(t *testing.T) {
	good := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(good, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFontSource()
	// Racing loads both complete; whichever lands last stays installed.
	fs.LoadFile(good)
	fs.LoadFile(good)
	pollUntilChanged(t, fs)
	if !fs.Ready() {
		t.Fatal("racing loads installed nothing")
	}
}
