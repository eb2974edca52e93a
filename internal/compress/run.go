package compress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// logger provides conditional debug output.
type logger struct {
	enabled bool
	out     io.Writer
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		fmt.Fprintf(l.out, format, args...)
	}
}

// accumulator buffers the engine's standard output in arrival order.
// Only the stdout copier writes to it; the byte count may be read concurrently.
type accumulator struct {
	buf   bytes.Buffer
	count atomic.Int64
	limit int64
}

func (a *accumulator) Write(p []byte) (int, error) {
	if a.limit > 0 && a.count.Load()+int64(len(p)) > a.limit {
		return 0, fmt.Errorf("%w: limit is %s", ErrOutputTooLarge,
			humanize.IBytes(uint64(a.limit))) //nolint:gosec // Limit is validated non-negative
	}

	n, _ := a.buf.Write(p)
	a.count.Add(int64(n))

	return n, nil
}

// startProgressReporter invokes hook(bytes) on each tick until ctx is done
// or the returned stop function is called. stop blocks until the reporter
// goroutine has exited.
func startProgressReporter(ctx context.Context, acc *accumulator, hook func(int64), interval time.Duration) (stop func()) {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(acc.count.Load())
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// Run launches the engine on opt.Path and turns its output into a Report.
//
// The engine's standard output is buffered in full and parsed only after the
// process exits with code 0. Its standard error is forwarded to stderr chunk
// by chunk as it arrives. A non-zero exit yields an *EngineError and no
// report; the engine's own stderr is the only detail.
//
// Progress updates with the number of bytes received so far are sent to
// progressHook if provided.
func Run(ctx context.Context, opt Options, stderr io.Writer, progressHook func(int64)) (*Report, error) {
	if stderr == nil {
		stderr = os.Stderr
	}

	log := logger{enabled: opt.Debug, out: stderr}

	if err := validator.New().Struct(opt); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	dir, err := filepath.Abs(opt.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", dir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("path %q: %w", dir, ErrNotDirectory)
	}

	log.printf("[debug]: engine: %s\n", opt.Engine)
	log.printf("[debug]: directory: %s\n", dir)

	// Cancelled when a stream copy fails so a blocked engine is not left running.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, opt.Engine, dir)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("connecting engine stdout: %w", err)
	}

	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("connecting engine stderr: %w", err)
	}

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting engine %q: %w", opt.Engine, err)
	}

	acc := &accumulator{limit: opt.MaxOutput}

	stopProgress := startProgressReporter(runCtx, acc, progressHook, opt.ProgressInterval)

	var group errgroup.Group

	group.Go(func() error {
		if _, err := io.Copy(acc, stdout); err != nil {
			cancel()

			return fmt.Errorf("reading engine stdout: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		if _, err := io.Copy(stderr, errPipe); err != nil {
			cancel()

			return fmt.Errorf("forwarding engine stderr: %w", err)
		}

		return nil
	})

	// Both pipes must be drained before Wait closes them.
	copyErr := group.Wait()
	waitErr := cmd.Wait()

	stopProgress()

	elapsed := time.Since(start)

	log.printf("[debug]: engine finished after %v, %s on stdout\n",
		elapsed.Round(time.Millisecond), humanize.IBytes(uint64(acc.count.Load()))) //nolint:gosec // Count is never negative

	if copyErr != nil {
		return nil, copyErr
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return nil, &EngineError{Code: exitErr.ExitCode()}
		}

		return nil, fmt.Errorf("waiting for engine: %w", waitErr)
	}

	records, err := ParseResults(acc.buf.Bytes())
	if err != nil {
		return nil, err
	}

	for i, r := range records {
		if !r.Valid() {
			log.printf("[debug]: entry %d (%s): size is not a number\n", i, r.Name)
		}
	}

	report := Aggregate(records)
	report.Directory = dir
	report.Engine = opt.Engine
	report.PayloadBytes = acc.count.Load()
	report.Elapsed = elapsed

	return report, nil
}
