package balloon

import (
	"fmt"
	"os"
	"time"
)

// frameStats holds per-frame timing and rebuild metrics.
// Only populated when Stage.debug is true.
type frameStats struct {
	inflate  time.Duration
	physics  time.Duration
	rebuilds int
	frames   int
}

// statsLogInterval is the number of frames between debug stat lines.
const statsLogInterval = 60

// SetDebugMode enables or disables debug mode. When enabled, disposed-letter
// access panics, a letter-count warning is printed, and timing stats are
// logged to stderr once per interval.
func (st *Stage) SetDebugMode(enabled bool) {
	st.debug = enabled
	st.stats = frameStats{}
}

// statsClock reads a monotonic-ish clock for stat deltas. Returns zero when
// debug mode is off so the subtraction in Update stays free.
func (st *Stage) statsClock() time.Duration {
	if !st.debug {
		return 0
	}
	return time.Duration(time.Now().UnixNano())
}

// frame accumulates one frame and logs at the interval.
func (fs *frameStats) frame(st *Stage) {
	if !st.debug {
		return
	}
	fs.frames++
	debugCheckLetterCount(st)
	if fs.frames < statsLogInterval {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[balloon] inflate: %v | physics: %v | rebuilds: %d | letters: %d\n",
		fs.inflate, fs.physics, fs.rebuilds, len(st.letters))
	fs.inflate = 0
	fs.physics = 0
	fs.rebuilds = 0
	fs.frames = 0
}

// debugCheckDisposed panics with a descriptive message when a disposed
// letter is used. Only called when the stage is in debug mode; release-mode
// callers skip this entirely.
func debugCheckDisposed(l *Letter, op string) {
	if l.disposed {
		panic(fmt.Sprintf("balloon debug: %s on disposed letter %q", op, l.Char))
	}
}

// debugMaxLetterCount warns when the O(n²) collision pass is likely to
// dominate the frame.
const debugMaxLetterCount = 256

func debugCheckLetterCount(st *Stage) {
	if len(st.letters) > debugMaxLetterCount {
		_, _ = fmt.Fprintf(os.Stderr, "[balloon] warning: %d letters exceeds %d; collision pass is O(n²)\n",
			len(st.letters), debugMaxLetterCount)
	}
}
