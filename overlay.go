package balloon

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Overlay produces the debug text the examples print with
// ebitenutil.DebugPrint: frame rates plus a letter census. The text is
// rebuilt at most every 0.5 seconds of stage time to stay readable.
type Overlay struct {
	text       string
	lastUpdate float64
}

// Text returns the overlay string, refreshing it from the stage when the
// refresh interval has elapsed.
func (o *Overlay) Text(st *Stage) string {
	if o.text != "" && st.Now()-o.lastUpdate < 0.5 {
		return o.text
	}
	o.lastUpdate = st.Now()

	var spawning, settled, decaying int
	for _, l := range st.Letters() {
		switch l.State {
		case StateSpawning:
			spawning++
		case StateSettled:
			settled++
		case StateDecaying:
			decaying++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f\nTPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	fmt.Fprintf(&b, "letters: %d (%d spawning, %d settled, %d decaying)",
		len(st.Letters()), spawning, settled, decaying)
	if st.Clock() != nil {
		b.WriteString("\nclock mode")
	}
	o.text = b.String()
	return o.text
}
