package balloon

import (
	"fmt"
	"os"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// loadResult is the outcome of one background font load.
type loadResult struct {
	name string
	font *truetype.Font
	err  error
}

// FontSource owns the glyph outline font. Loads run on background goroutines
// and are installed onto the frame loop via Poll; there is no cancellation,
// so a second load request simply races the first and the last writer wins.
//
// While no font is installed, Ready reports false and the stage rejects
// letter creation rather than queueing it.
type FontSource struct {
	font    *truetype.Font
	results chan loadResult
}

// NewFontSource creates an empty font source. Install a font with
// LoadSystemFont or UseFallback before creating letters.
func NewFontSource() *FontSource {
	return &FontSource{
		// Small buffer so racing loads never block their goroutines.
		results: make(chan loadResult, 4),
	}
}

// LoadSystemFont starts a background load of the named font from the host
// system's font directories. The result is installed on the next Poll.
// A failed load falls back to the embedded font.
func (fs *FontSource) LoadSystemFont(name string) {
	go func() {
		path, err := findfont.Find(name)
		if err != nil {
			fs.results <- loadResult{name: name, err: fmt.Errorf("find font %q: %w", name, err)}
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fs.results <- loadResult{name: name, err: fmt.Errorf("read font %s: %w", path, err)}
			return
		}
		f, err := truetype.Parse(data)
		if err != nil {
			fs.results <- loadResult{name: name, err: fmt.Errorf("parse font %s: %w", path, err)}
			return
		}
		fs.results <- loadResult{name: name, font: f}
	}()
}

// LoadFile starts a background load of a font file at the given path.
func (fs *FontSource) LoadFile(path string) {
	go func() {
		data, err := os.ReadFile(path)
		if err != nil {
			fs.results <- loadResult{name: path, err: fmt.Errorf("read font %s: %w", path, err)}
			return
		}
		f, err := truetype.Parse(data)
		if err != nil {
			fs.results <- loadResult{name: path, err: fmt.Errorf("parse font %s: %w", path, err)}
			return
		}
		fs.results <- loadResult{name: path, font: f}
	}()
}

// UseFallback installs the embedded fallback font synchronously.
func (fs *FontSource) UseFallback() error {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		// The embedded font is known good; a parse failure here is fatal.
		return fmt.Errorf("parse fallback font: %w", err)
	}
	fs.font = f
	return nil
}

// Poll drains completed background loads and installs the newest result.
// A failed primary load logs a warning and installs the fallback font.
// Returns true if the installed font changed. Called once per frame tick.
func (fs *FontSource) Poll() bool {
	changed := false
	for {
		select {
		case r := <-fs.results:
			if r.err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "[balloon] font load failed: %v; using fallback\n", r.err)
				if err := fs.UseFallback(); err != nil {
					_, _ = fmt.Fprintf(os.Stderr, "[balloon] %v\n", err)
					continue
				}
				changed = true
				continue
			}
			fs.font = r.font
			changed = true
		default:
			return changed
		}
	}
}

// Ready reports whether a font is installed.
func (fs *FontSource) Ready() bool {
	return fs.font != nil
}

// Font returns the installed font, or nil if none is ready.
func (fs *FontSource) Font() *truetype.Font {
	return fs.font
}
