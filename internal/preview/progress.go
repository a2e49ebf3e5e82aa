package preview

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pspoerri/wfcsynth/internal/tileset"
	"github.com/pspoerri/wfcsynth/internal/wfc"
)

// ProgressObserver renders an in-place terminal progress bar tracking the
// fraction of collapsed cells, refreshed at a fixed interval. cmd/wfcsynth
// uses it for --verbose runs without --display.
type ProgressObserver struct {
	total    int
	barWidth int
	start    time.Time
	attempts int
	mu       sync.Mutex
	last     time.Time
}

// NewProgressObserver constructs a progress bar sized for totalCells.
func NewProgressObserver(totalCells int) *ProgressObserver {
	return &ProgressObserver{
		total:    totalCells,
		barWidth: 30,
		start:    time.Now(),
	}
}

func (p *ProgressObserver) Observe(g *wfc.Grid, set *tileset.Set, attempt int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts = attempt
	now := time.Now()
	if now.Sub(p.last) < 50*time.Millisecond {
		return
	}
	p.last = now
	p.draw(collapsedCount(g))
}

func (p *ProgressObserver) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draw(p.total)
	fmt.Fprint(os.Stderr, "\n")
}

func (p *ProgressObserver) draw(collapsed int) {
	var frac float64
	if p.total > 0 {
		frac = float64(collapsed) / float64(p.total)
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(float64(p.barWidth) * frac)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.barWidth-filled)

	elapsed := time.Since(p.start)
	label := "collapsing"
	if p.attempts > 0 {
		label = fmt.Sprintf("collapsing (attempt %d)", p.attempts+1)
	}
	fmt.Fprintf(os.Stderr, "\r%s [%s] %3.0f%%  %d/%d cells  %s\033[K",
		label, bar, frac*100, collapsed, p.total, formatDuration(elapsed))
}

func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) - m*60
	return fmt.Sprintf("%dm%02ds", m, s)
}
