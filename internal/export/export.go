// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export turns a carousel into downloadable images. For every
// slide it captures the full slide, a transparent text overlay and one
// background image per variant, uploads them under the export's storage
// prefix and bundles the slides into a zip archive.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"slidecraft/internal/browser"
	"slidecraft/internal/deck"
	"slidecraft/internal/document"
	"slidecraft/internal/geometry"
	"slidecraft/internal/models"
	"slidecraft/internal/rendermodel"
	"slidecraft/internal/slug"
	"slidecraft/internal/storage"
)

var (
	ErrNotFound        = deck.ErrNotFound
	ErrNoSlides        = deck.ErrNoSlides
	ErrNoTemplate      = deck.ErrNoTemplate
	ErrQuotaExceeded   = errors.New("monthly export limit reached")
	ErrRendererCrashed = errors.New("the renderer kept crashing; try again, or download the slides one by one")
	ErrBudgetExceeded  = errors.New("the export ran out of time; download the slides one by one instead")
	ErrUpload          = errors.New("upload failed")
	ErrNoStorage       = errors.New("export storage is not configured")
	// ErrInvalidConfig wraps every problem with the carousel's own data:
	// no slides, no usable template, undecodable slide content.
	ErrInvalidConfig = errors.New("invalid carousel configuration")
)

// Decks loads carousels for rendering.
type Decks interface {
	Load(owner, carouselID uuid.UUID) (*deck.Deck, error)
}

// Records persists export records.
type Records interface {
	Create(e *models.Export) (*models.Export, error)
	MarkReady(id uuid.UUID, archivePath string, slides int) error
	MarkFailed(id uuid.UUID, reason string) error
	CountSince(owner uuid.UUID, since time.Time) (int, error)
}

// Objects is the artifact storage.
type Objects interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Fetcher downloads external images.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Sleeper waits between attempts. It returns early with ctx's error.
type Sleeper func(ctx context.Context, d time.Duration) error

// Config holds the export limits and timings.
type Config struct {
	MaxAttempts    int
	RetryBackoff   time.Duration
	URLTTL         time.Duration
	MaterializeTTL time.Duration
	FreeLimit      int
	ProLimit       int
	JPEGQuality    int

	// Budget is the wall-clock ceiling for one export, every attempt and
	// backoff included. The HTTP write timeout must exceed it.
	Budget time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBackoff < 0 {
		c.RetryBackoff = 0
	}
	if c.URLTTL <= 0 {
		c.URLTTL = time.Hour
	}
	if c.MaterializeTTL <= 0 {
		c.MaterializeTTL = 15 * time.Minute
	}
	if c.FreeLimit <= 0 {
		c.FreeLimit = 10
	}
	if c.ProLimit <= 0 {
		c.ProLimit = 500
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = 92
	}
	if c.Budget <= 0 {
		c.Budget = 5 * time.Minute
	}
	return c
}

// Orchestrator runs exports. One Orchestrator serves every request; each
// Run owns its own browser session.
type Orchestrator struct {
	decks    Decks
	records  Records
	objects  Objects
	fetch    Fetcher
	launcher browser.Launcher
	builder  *rendermodel.Builder
	docs     *document.Generator
	cfg      Config

	sleep Sleeper
	now   func() time.Time
}

// New creates an orchestrator. objects may be nil when object storage is
// not configured; every Run then fails with ErrNoStorage.
func New(decks Decks, records Records, objects Objects, fetch Fetcher, launcher browser.Launcher, builder *rendermodel.Builder, docs *document.Generator, cfg Config) *Orchestrator {
	return &Orchestrator{
		decks:    decks,
		records:  records,
		objects:  objects,
		fetch:    fetch,
		launcher: launcher,
		builder:  builder,
		docs:     docs,
		cfg:      cfg.withDefaults(),
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// Request asks for one export.
type Request struct {
	Owner    uuid.UUID
	Carousel uuid.UUID
	Format   browser.Format
}

// Result is returned for a finished export.
type Result struct {
	ExportID    uuid.UUID `json:"exportId"`
	Status      string    `json:"status"`
	DownloadURL string    `json:"downloadUrl"`
	SlideURLs   []string  `json:"slideUrls"`
	// Filename is the suggested name for the downloaded archive.
	Filename string `json:"filename"`
}

// Run exports the carousel. Ownership and quota are checked before an
// export record exists; every later failure leaves the record failed.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	if o.objects == nil {
		return nil, ErrNoStorage
	}
	if req.Format == "" {
		req.Format = browser.FormatPNG
	}

	d, err := o.decks.Load(req.Owner, req.Carousel)
	if err != nil {
		return nil, err
	}

	used, err := o.records.CountSince(req.Owner, models.MonthStart(o.now()))
	if err != nil {
		return nil, fmt.Errorf("check export quota: %w", err)
	}
	if limit := d.Account.ExportLimit(o.cfg.FreeLimit, o.cfg.ProLimit); used >= limit {
		return nil, fmt.Errorf("%w (%d of %d)", ErrQuotaExceeded, used, limit)
	}

	rec, err := o.records.Create(&models.Export{
		OwnerID:    req.Owner,
		CarouselID: req.Carousel,
		Format:     string(req.Format),
	})
	if err != nil {
		return nil, fmt.Errorf("create export record: %w", err)
	}

	started := o.now()
	slog.Info("export started", "export_id", rec.ID, "carousel_id", req.Carousel, "slides", len(d.Slides), "format", req.Format)

	runCtx, cancel := context.WithTimeout(ctx, o.cfg.Budget)
	defer cancel()
	res, attempts, err := o.run(runCtx, rec, d, req.Format)
	if err != nil && ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w (%s): %w", ErrBudgetExceeded, o.cfg.Budget, err)
	}
	if err != nil {
		slog.Error("export failed", "export_id", rec.ID, "attempts", attempts, "error", err)
		if markErr := o.records.MarkFailed(rec.ID, err.Error()); markErr != nil {
			slog.Error("failed to mark export failed", "export_id", rec.ID, "error", markErr)
		}
		return nil, err
	}

	slog.Info("export ready", "export_id", rec.ID, "attempts", attempts, "duration", o.now().Sub(started))
	return res, nil
}

func (o *Orchestrator) run(ctx context.Context, rec *models.Export, d *deck.Deck, format browser.Format) (*Result, int, error) {
	if err := d.Check(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	paths := storage.ExportPaths{
		Owner:    rec.OwnerID.String(),
		Carousel: rec.CarouselID.String(),
		Export:   rec.ID.String(),
	}
	frame := geometry.FrameFor(d.Ratio())

	d.ResolveImages(ctx, o.objects, o.cfg.URLTTL)
	o.materialize(ctx, d, paths.Owner)

	var slides [][]byte
	attempts, err := runAttempts(ctx, o.cfg.MaxAttempts, o.cfg.RetryBackoff, o.sleep, retryable,
		func(ctx context.Context, n int) error {
			out, err := o.attempt(ctx, d, frame, paths, format)
			if err != nil {
				slog.Warn("export attempt failed", "export_id", rec.ID, "attempt", n, "error", err)
				return err
			}
			slides = out
			return nil
		})
	if err != nil {
		return nil, attempts, err
	}

	var credits []rendermodel.Credit
	for _, s := range d.Slides {
		credits = append(credits, s.Content.Background.Credits()...)
	}
	archive, err := BuildArchive(ArchiveContents{
		Ext:      format.Ext(),
		Slides:   slides,
		Caption:  d.Carousel.Caption.Text(),
		Credits:  credits,
		Modified: o.now(),
	})
	if err != nil {
		return nil, attempts, fmt.Errorf("build archive: %w", err)
	}
	if err := o.upload(ctx, paths.Archive(), "application/zip", archive); err != nil {
		return nil, attempts, err
	}

	keys := []string{paths.Archive()}
	for i := range slides {
		keys = append(keys, paths.Slide(i+1, format.Ext()))
	}
	urls, err := o.sign(ctx, keys)
	if err != nil {
		return nil, attempts, err
	}

	if err := o.records.MarkReady(rec.ID, paths.Archive(), len(slides)); err != nil {
		return nil, attempts, fmt.Errorf("mark export ready: %w", err)
	}

	return &Result{
		ExportID:    rec.ID,
		Status:      string(models.ExportReady),
		DownloadURL: urls[0],
		SlideURLs:   urls[1:],
		Filename:    slug.Filename(d.Carousel.Title, "zip"),
	}, attempts, nil
}

// attempt renders every slide with a fresh browser session and returns
// the primary images in slide order.
func (o *Orchestrator) attempt(ctx context.Context, d *deck.Deck, f geometry.Frame, paths storage.ExportPaths, format browser.Format) ([][]byte, error) {
	sess, err := o.launcher.Launch(ctx)
	if err != nil {
		return nil, &browser.CrashError{Op: "launch", Err: err}
	}
	defer sess.Close()

	page, err := sess.NewPage(ctx)
	if err != nil {
		return nil, &browser.CrashError{Op: "new page", Err: err}
	}
	defer page.Close()

	out := make([][]byte, 0, len(d.Slides))
	for i := range d.Slides {
		img, err := o.renderSlide(ctx, page, d, i, f, paths, format)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		out = append(out, img)
	}
	return out, nil
}

// renderSlide captures and uploads the full slide, its overlay and its
// background variants, in that order.
func (o *Orchestrator) renderSlide(ctx context.Context, page browser.Page, d *deck.Deck, i int, f geometry.Frame, paths storage.ExportPaths, format browser.Format) ([]byte, error) {
	n := i + 1
	w, h := f.Pixels()
	bg := d.Slides[i].Content.Background
	model := o.builder.Build(d.Input(i, f, bg))

	full, err := o.capture(ctx, page, model, f, document.ModeFull, browser.Capture{
		Width: w, Height: h, Format: format, Quality: o.cfg.JPEGQuality,
	})
	if err != nil {
		return nil, fmt.Errorf("full: %w", err)
	}
	if err := o.upload(ctx, paths.Slide(n, format.Ext()), format.ContentType(), full); err != nil {
		return nil, err
	}

	overlay, err := o.capture(ctx, page, model, f, document.ModeOverlay, browser.Capture{
		Width: w, Height: h, Format: browser.FormatPNG, Transparent: true,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	if err := o.upload(ctx, paths.Overlay(n), browser.FormatPNG.ContentType(), overlay); err != nil {
		return nil, err
	}

	for v := range bg.VariantCount() {
		vm := o.builder.Build(d.Input(i, f, bg.Variant(v)))
		img, err := o.capture(ctx, page, vm, f, document.ModeBackground, browser.Capture{
			Width: w, Height: h, Format: browser.FormatPNG,
		})
		if err != nil {
			return nil, fmt.Errorf("background %d: %w", v+1, err)
		}
		if err := o.upload(ctx, paths.VideoBackground(n, v+1), browser.FormatPNG.ContentType(), img); err != nil {
			return nil, err
		}
	}
	return full, nil
}

func (o *Orchestrator) capture(ctx context.Context, page browser.Page, m *rendermodel.Model, f geometry.Frame, mode document.Mode, c browser.Capture) ([]byte, error) {
	html, err := o.docs.Generate(m, f, mode)
	if err != nil {
		return nil, err
	}
	c.HTML = html
	return page.Capture(ctx, c)
}

func (o *Orchestrator) upload(ctx context.Context, key, contentType string, data []byte) error {
	if err := o.objects.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUpload, key, err)
	}
	return nil
}

// sign presigns keys concurrently, preserving order.
func (o *Orchestrator) sign(ctx context.Context, keys []string) ([]string, error) {
	urls := make([]string, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, key := range keys {
		g.Go(func() error {
			u, err := o.objects.PresignedURL(gctx, key, o.cfg.URLTTL)
			if err != nil {
				return fmt.Errorf("%w: sign %s: %w", ErrUpload, key, err)
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// retryable reports whether a failed attempt may succeed with a new
// browser. Storage failures never are, whatever their message says.
func retryable(err error) bool {
	return !errors.Is(err, ErrUpload) && browser.IsTransient(err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
