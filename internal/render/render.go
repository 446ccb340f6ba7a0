// Package render rasterizes single PDF pages to PNG.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
)

// Rasterizer renders one page of a PDF. pageIndex is 0-based.
type Rasterizer interface {
	Render(ctx context.Context, pdf []byte, pageIndex, dpi int) ([]byte, error)
	Available() error
}

// Config configures Pdftoppm.
type Config struct {
	// Binary is the pdftoppm executable (default "pdftoppm").
	Binary string
	// Timeout bounds one pdftoppm run (default 60s).
	Timeout time.Duration
	// Attempts is the number of tries for a failing run (default 3).
	Attempts uint
	// Delay between tries (default 200ms).
	Delay  time.Duration
	Logger *slog.Logger
}

// Pdftoppm renders pages with poppler's pdftoppm.
type Pdftoppm struct {
	binary   string
	timeout  time.Duration
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// NewPdftoppm applies defaults to cfg.
func NewPdftoppm(cfg Config) *Pdftoppm {
	p := &Pdftoppm{
		binary:   cfg.Binary,
		timeout:  cfg.Timeout,
		attempts: cfg.Attempts,
		delay:    cfg.Delay,
		logger:   cfg.Logger,
	}
	if p.binary == "" {
		p.binary = "pdftoppm"
	}
	if p.timeout <= 0 {
		p.timeout = 60 * time.Second
	}
	if p.attempts == 0 {
		p.attempts = 3
	}
	if p.delay <= 0 {
		p.delay = 200 * time.Millisecond
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Available reports whether the binary can be found.
func (p *Pdftoppm) Available() error {
	if _, err := exec.LookPath(p.binary); err != nil {
		return fmt.Errorf("%s not found: %w", p.binary, err)
	}
	return nil
}

// Render writes pdf to a temporary file and renders the requested page.
// Transient failures are retried; a cancelled context is not.
func (p *Pdftoppm) Render(ctx context.Context, pdf []byte, pageIndex, dpi int) ([]byte, error) {
	if pageIndex < 0 {
		return nil, fmt.Errorf("invalid page index %d", pageIndex)
	}
	tmpDir, err := os.MkdirTemp("", "pdfa11y-render-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	input := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(input, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	var png []byte
	err = retry.Do(
		func() error {
			out, err := p.renderOnce(ctx, input, tmpDir, pageIndex+1, dpi)
			if err != nil {
				return err
			}
			png = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("pdftoppm failed, retrying", "page", pageIndex+1, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return png, nil
}

func (p *Pdftoppm) renderOnce(ctx context.Context, input, dir string, pageNum, dpi int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prefix := filepath.Join(dir, "page")
	page := strconv.Itoa(pageNum)
	// -singlefile writes <prefix>.png without a page number suffix.
	cmd := exec.CommandContext(ctx, p.binary,
		"-png",
		"-f", page,
		"-l", page,
		"-r", strconv.Itoa(dpi),
		"-singlefile",
		input,
		prefix,
	)
	output, err := cmd.CombinedOutput()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("pdftoppm: %w", ctxErr)
	}
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	path := prefix + ".png"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	_ = os.Remove(path)
	return data, nil
}
