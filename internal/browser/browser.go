// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package browser drives the headless browser that turns static slide
// documents into images. One Session is one browser process; callers
// create a fresh session per export attempt and reuse one Page for every
// capture within it.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Format is the encoded image format of a capture.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts "png", "jpeg" or "jpg"; empty means PNG.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, true
	case "jpeg", "jpg":
		return FormatJPEG, true
	}
	return "", false
}

// Ext is the file extension used for the format.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Capture describes one screenshot.
type Capture struct {
	HTML          []byte
	Width, Height int
	Format        Format
	Quality       int // JPEG only, 1..100
	// Transparent keeps the page background transparent; PNG only.
	Transparent bool
}

// Page renders documents one at a time. It is not safe for concurrent use.
type Page interface {
	Capture(ctx context.Context, c Capture) ([]byte, error)
	Close() error
}

// Session is a running browser.
type Session interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// CrashError reports that the browser or its page went away mid-operation.
type CrashError struct {
	Op  string
	Err error
}

func (e *CrashError) Error() string {
	return "browser crashed during " + e.Op + ": " + e.Err.Error()
}

func (e *CrashError) Unwrap() error { return e.Err }

// crashSignatures are message fragments of failures caused by a dying
// browser rather than by the document.
var crashSignatures = []string{
	"target closed",
	"session closed",
	"browser closed",
	"connection closed",
	"websocket",
	"protocol error",
	"channel closed",
	"invalid context",
	"execution context was destroyed",
}

// IsTransient reports whether err is a browser crash that a fresh session
// may not hit again.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var crash *CrashError
	if errors.As(err, &crash) {
		return true
	}
	var proto *cdproto.Error
	if errors.As(err, &proto) {
		return true
	}
	if errors.Is(err, chromedp.ErrChannelClosed) || errors.Is(err, chromedp.ErrInvalidContext) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range crashSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// ChromeLauncher starts Chrome through chromedp, either as a local process
// or attached to a remote debugging endpoint.
type ChromeLauncher struct {
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup.
	ExecPath string
	// RemoteURL attaches to an already running browser instead.
	RemoteURL string
	// Timeout bounds a single capture.
	Timeout time.Duration
	// Settle is an extra pause after the document reports it has settled.
	Settle time.Duration
}

// Launch starts a browser. The session outlives ctx only until Close.
func (l *ChromeLauncher) Launch(ctx context.Context) (Session, error) {
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	base := context.WithoutCancel(ctx)
	if l.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(base, l.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.DisableGPU,
			chromedp.NoSandbox,
			chromedp.Flag("hide-scrollbars", true),
			chromedp.Flag("font-render-hinting", "none"),
		)
		if l.ExecPath != "" {
			opts = append(opts, chromedp.ExecPath(l.ExecPath))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(base, opts...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	// The first Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, &CrashError{Op: "launch", Err: err}
	}
	slog.Debug("browser launched", "remote", l.RemoteURL != "")

	return &chromeSession{
		launcher: l,
		ctx:      browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}, nil
}

type chromeSession struct {
	launcher *ChromeLauncher
	ctx      context.Context
	cancel   context.CancelFunc
}

func (s *chromeSession) NewPage(ctx context.Context) (Page, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, &CrashError{Op: "new page", Err: err}
	}
	tabCtx, cancel := chromedp.NewContext(s.ctx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, &CrashError{Op: "new page", Err: err}
	}
	return &chromePage{ctx: tabCtx, cancel: cancel, timeout: s.launcher.Timeout, settle: s.launcher.Settle}, nil
}

func (s *chromeSession) Close() error {
	s.cancel()
	return nil
}

type chromePage struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	settle  time.Duration
}

// settledScript resolves once web fonts are loaded and every image has
// been decoded. Broken images resolve too; they simply stay blank.
const settledScript = `(async () => {
	await document.fonts.ready;
	await Promise.all(Array.from(document.images, img => img.decode().catch(() => null)));
	return true;
})()`

func (p *chromePage) Capture(ctx context.Context, c Capture) ([]byte, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("browser: invalid capture size %dx%d", c.Width, c.Height)
	}
	runCtx, cancel := p.ctx, context.CancelFunc(func() {})
	if p.timeout > 0 {
		runCtx, cancel = context.WithTimeout(p.ctx, p.timeout)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		settled bool
		shot    []byte
	)
	err := chromedp.Run(runCtx,
		emulation.SetDeviceMetricsOverride(int64(c.Width), int64(c.Height), 1, false),
		background(c.Transparent),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(c.HTML)).Do(ctx)
		}),
		chromedp.Evaluate(settledScript, &settled, func(ep *runtime.EvaluateParams) *runtime.EvaluateParams {
			return ep.WithAwaitPromise(true)
		}),
		chromedp.Sleep(p.settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			shot, err = screenshot(c).Do(ctx)
			return err
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("browser: capture: %w", ctx.Err())
		}
		if p.ctx.Err() != nil {
			return nil, &CrashError{Op: "capture", Err: err}
		}
		return nil, fmt.Errorf("browser: capture: %w", err)
	}
	return shot, nil
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}

func background(transparent bool) chromedp.Action {
	if transparent {
		return emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{R: 0, G: 0, B: 0, A: 0})
	}
	// No colour resets the override.
	return emulation.SetDefaultBackgroundColorOverride()
}

func screenshot(c Capture) *page.CaptureScreenshotParams {
	clip := &page.Viewport{X: 0, Y: 0, Width: float64(c.Width), Height: float64(c.Height), Scale: 1}
	params := page.CaptureScreenshot().WithClip(clip).WithFromSurface(true)
	if c.Format == FormatJPEG && !c.Transparent {
		q := c.Quality
		if q <= 0 || q > 100 {
			q = 92
		}
		return params.WithFormat(page.CaptureScreenshotFormatJpeg).WithQuality(int64(q))
	}
	return params.WithFormat(page.CaptureScreenshotFormatPng)
}
