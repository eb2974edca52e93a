package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/idelchi/imgsizecompress/internal/compress"
)

// statusLine is a single in-place progress line on stderr. Anything else
// written through it first clears the line, so the engine's diagnostics are
// never overdrawn.
type statusLine struct {
	mu    sync.Mutex
	out   io.Writer
	shown bool
}

func (s *statusLine) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()

	return s.out.Write(p)
}

func (s *statusLine) show(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.out, "\r\033[2K%s\r", msg)
	s.shown = true
}

func (s *statusLine) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
}

func (s *statusLine) clearLocked() {
	if s.shown {
		fmt.Fprint(s.out, "\r\033[2K\r")
		s.shown = false
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

// terminalWidth returns the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // File descriptors fit in int
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // File descriptors fit in int
	if err != nil {
		return 0
	}

	return width
}

func logic(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	if opts.NoColor || opts.Output != "table" {
		color.NoColor = true
	}

	engine, err := compress.LocateEngine(opts.Engine)
	if err != nil {
		return err
	}

	opts.Engine = engine

	dir, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	opts.Path = dir

	if opts.Output == "table" {
		fmt.Fprintf(stdout, "🔍 Scanning directory: %s\n", dir)
	}

	enableProgress := opts.Output == "table" &&
		!opts.Debug &&
		isTerminal(stderr)

	status := &statusLine{out: stderr}

	var progressHook func(received int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		start := time.Now()

		progressHook = func(received int64) {
			status.show(fmt.Sprintf("Compressing… %s received, %v elapsed",
				humanize.IBytes(uint64(received)), //nolint:gosec // Received bytes are never negative
				time.Since(start).Round(time.Second)))
		}
	}

	report, err := compress.Run(ctx, opts.Options, status, progressHook)

	// Clear the status line
	status.clear()

	if err != nil {
		return err
	}

	switch opts.Output {
	case "json":
		return PrintJSON(report, stdout)
	case "markdown":
		return PrintMarkdown(report, stdout)
	case "table":
		return PrintTable(report, stdout, terminalWidth(stdout))
	default:
		return fmt.Errorf("unknown output format: %s", opts.Output)
	}
}
