// Package progress renders run progress on the terminal while the
// planning pipeline executes. In interactive terminals it shows an
// animated spinner with the current stage; in CI it prints one line per
// stage transition instead.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Tracker follows the pipeline through its stages and draws progress
type Tracker struct {
	writer      io.Writer
	stages      []string
	mu          sync.Mutex
	current     string
	completed   int
	startTime   time.Time
	stageStart  time.Time
	showSpinner bool
	spinnerIdx  int
	stopChan    chan struct{}
	stopOnce    sync.Once
	isCI        bool
}

// Config holds configuration for the tracker
type Config struct {
	Writer      io.Writer
	Stages      []string
	ShowSpinner bool
	IsCI        bool // set in CI/CD environments to disable line rewriting
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewTracker creates a new progress tracker
func NewTracker(cfg Config) *Tracker {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	// Auto-detect CI environment
	if !cfg.IsCI {
		cfg.IsCI = os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
	}

	return &Tracker{
		writer:      cfg.Writer,
		stages:      cfg.Stages,
		startTime:   time.Now(),
		showSpinner: cfg.ShowSpinner && !cfg.IsCI,
		stopChan:    make(chan struct{}),
		isCI:        cfg.IsCI,
	}
}

// Start begins the spinner display. It is a no-op in CI mode.
func (t *Tracker) Start() {
	if t.showSpinner {
		go t.spinnerLoop()
	}
}

// StageStarted records that the pipeline entered a new stage
func (t *Tracker) StageStarted(stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isCI {
		if t.current != "" {
			fmt.Fprintf(t.writer, "✓ %s (%s)\n", t.current, formatDuration(time.Since(t.stageStart)))
		}
		fmt.Fprintf(t.writer, "▶ %s\n", stage)
	}

	if t.current != "" {
		t.completed++
	}
	t.current = stage
	t.stageStart = time.Now()
}

// Finish stops the tracker and prints the run summary. Safe to call more
// than once; only the first call has an effect.
func (t *Tracker) Finish(err error) {
	t.stopOnce.Do(func() {
		if t.showSpinner {
			close(t.stopChan)
		}

		t.mu.Lock()
		defer t.mu.Unlock()

		if t.showSpinner {
			// Clear the spinner line
			fmt.Fprintf(t.writer, "\r%s\r", strings.Repeat(" ", 80))
		}

		elapsed := formatDuration(time.Since(t.startTime))
		if err != nil {
			if t.current != "" {
				fmt.Fprintf(t.writer, "✗ Planning failed at %s after %s\n", t.current, elapsed)
			} else {
				fmt.Fprintf(t.writer, "✗ Planning failed after %s\n", elapsed)
			}
			return
		}

		if t.isCI && t.current != "" {
			fmt.Fprintf(t.writer, "✓ %s (%s)\n", t.current, formatDuration(time.Since(t.stageStart)))
		}
		fmt.Fprintf(t.writer, "✓ Planning completed in %s\n", elapsed)
	})
}

// spinnerLoop runs the spinner animation
func (t *Tracker) spinnerLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.current != "" {
				fmt.Fprint(t.writer, t.statusLine())
			}
			t.spinnerIdx = (t.spinnerIdx + 1) % len(spinnerFrames)
			t.mu.Unlock()
		}
	}
}

// statusLine renders the single rewritten progress line. Callers hold the
// mutex.
func (t *Tracker) statusLine() string {
	spinner := spinnerFrames[t.spinnerIdx]
	elapsed := formatDuration(time.Since(t.startTime))

	if len(t.stages) > 0 {
		return fmt.Sprintf("\r%s [%d/%d] %s | %s", spinner, t.completed+1, len(t.stages), t.current, elapsed)
	}
	return fmt.Sprintf("\r%s %s | %s", spinner, t.current, elapsed)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
