// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package deck loads a carousel together with everything its slides are
// rendered from: the resolved template per slide, the brand kit and the
// account's attribution policy. Both the export orchestrator and the
// preview/document endpoints build their render inputs from a Deck.
package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"slidecraft/internal/geometry"
	"slidecraft/internal/models"
	"slidecraft/internal/rendermodel"
)

var (
	// ErrNotFound is returned for carousels that do not exist or belong
	// to someone else; the two are indistinguishable to the caller.
	ErrNotFound = errors.New("carousel not found")
	// ErrNoTemplate means no template in a slide's chain could be used.
	ErrNoTemplate = errors.New("no template")
	// ErrNoSlides is returned by Check for an empty carousel.
	ErrNoSlides = errors.New("carousel has no slides")
)

// CarouselReader reads carousels and their slides.
type CarouselReader interface {
	FindByID(id uuid.UUID) (*models.Carousel, error)
	Slides(carouselID uuid.UUID) ([]models.Slide, error)
}

// TemplateReader reads templates.
type TemplateReader interface {
	FindByID(id uuid.UUID) (*models.Template, error)
}

// BrandKitReader reads brand kits.
type BrandKitReader interface {
	FindByID(id uuid.UUID) (*models.BrandKit, error)
}

// AccountReader reads accounts.
type AccountReader interface {
	FindByID(id uuid.UUID) (*models.Account, error)
}

// Signer turns storage keys into time-limited URLs.
type Signer interface {
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Slide is one loaded slide. Template is nil and Err set when the slide
// cannot be rendered with a real template.
type Slide struct {
	Row      models.Slide
	Content  rendermodel.SlideContent
	Template *rendermodel.TemplateConfig
	// TemplateKey identifies the template id and version used.
	TemplateKey string
	Err         error
}

// Deck is a loaded carousel.
type Deck struct {
	Account     *models.Account
	Carousel    *models.Carousel
	BrandRow    *models.BrandKit
	Brand       rendermodel.BrandKit
	Attribution rendermodel.AttributionPolicy
	Slides      []Slide
}

// Loader loads decks from the stores.
type Loader struct {
	Carousels CarouselReader
	Templates TemplateReader
	BrandKits BrandKitReader
	Accounts  AccountReader
	// DefaultAttribution is the "made with" line every slide carries
	// unless the account may replace it.
	DefaultAttribution string
}

// Load reads the carousel owned by owner. A carousel owned by someone else
// is reported as ErrNotFound. Per-slide problems do not fail the load;
// they are recorded on the slide.
func (l *Loader) Load(owner, carouselID uuid.UUID) (*Deck, error) {
	c, err := l.Carousels.FindByID(carouselID)
	if err != nil {
		return nil, fmt.Errorf("load carousel: %w", err)
	}
	if c == nil || c.OwnerID != owner {
		return nil, ErrNotFound
	}

	acct, err := l.Accounts.FindByID(owner)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if acct == nil {
		acct = &models.Account{ID: owner, Plan: models.PlanFree}
	}

	d := &Deck{
		Account:  acct,
		Carousel: c,
		Attribution: rendermodel.AttributionPolicy{
			Default:     l.DefaultAttribution,
			Custom:      acct.AttributionText,
			AllowCustom: acct.IsPro(),
		},
	}

	if c.BrandKitID != nil {
		kit, err := l.BrandKits.FindByID(*c.BrandKitID)
		if err != nil {
			return nil, fmt.Errorf("load brand kit: %w", err)
		}
		if kit != nil && kit.OwnerID == owner {
			d.BrandRow = kit
			d.Brand = kit.Kit("")
		}
	}

	rows, err := l.Carousels.Slides(c.ID)
	if err != nil {
		return nil, fmt.Errorf("load slides: %w", err)
	}

	templates := make(map[uuid.UUID]templateResult)
	for _, row := range rows {
		s := Slide{Row: row}
		s.Content, s.Err = row.Content()
		if s.Err == nil {
			s.Template, s.TemplateKey, s.Err = l.template(owner, chain(row, c, acct), templates)
			if s.Err != nil {
				s.Err = fmt.Errorf("slide %d: %w", row.Position, s.Err)
			}
		}
		d.Slides = append(d.Slides, s)
	}
	return d, nil
}

// chain lists the template ids to try for a slide, most specific first.
func chain(s models.Slide, c *models.Carousel, a *models.Account) []uuid.UUID {
	var ids []uuid.UUID
	for _, id := range []*uuid.UUID{s.TemplateID, c.TemplateID, a.DefaultTemplateID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

type templateResult struct {
	cfg *rendermodel.TemplateConfig
	key string
	err error
}

// template returns the first usable template of the chain. A template
// that exists but does not parse is a configuration error and stops the
// search; missing or foreign templates are skipped.
func (l *Loader) template(owner uuid.UUID, ids []uuid.UUID, seen map[uuid.UUID]templateResult) (*rendermodel.TemplateConfig, string, error) {
	for _, id := range ids {
		r, ok := seen[id]
		if !ok {
			r = l.loadTemplate(owner, id)
			seen[id] = r
		}
		if r.err != nil {
			return nil, "", r.err
		}
		if r.cfg != nil {
			return r.cfg, r.key, nil
		}
	}
	return nil, "", ErrNoTemplate
}

func (l *Loader) loadTemplate(owner, id uuid.UUID) templateResult {
	t, err := l.Templates.FindByID(id)
	if err != nil {
		return templateResult{err: fmt.Errorf("load template %s: %w", id, err)}
	}
	if t == nil || !t.UsableBy(owner) {
		return templateResult{}
	}
	cfg, err := t.Parse()
	if err != nil {
		return templateResult{err: fmt.Errorf("template %q: %w", t.Name, err)}
	}
	return templateResult{cfg: cfg, key: t.ID.String() + "@" + strconv.Itoa(t.Version)}
}

// Check returns the first slide error, or an error when there are no
// slides at all.
func (d *Deck) Check() error {
	if len(d.Slides) == 0 {
		return ErrNoSlides
	}
	for _, s := range d.Slides {
		if s.Err != nil {
			return s.Err
		}
	}
	return nil
}

// Ratio is the carousel's aspect ratio, defaulting to square.
func (d *Deck) Ratio() geometry.Ratio {
	if r, ok := geometry.ParseRatio(string(d.Carousel.Ratio)); ok {
		return r
	}
	return geometry.RatioSquare
}

// Input builds the render input for slide i (0-based) on frame f, using
// background bg in place of the slide's own. Stored overrides are clamped.
func (d *Deck) Input(i int, f geometry.Frame, bg rendermodel.Background) rendermodel.Input {
	s := d.Slides[i]
	content := s.Content
	content.Background = bg
	return rendermodel.Input{
		Template:    s.Template,
		Slide:       content,
		Brand:       d.Brand,
		SlideIndex:  i + 1,
		TotalSlides: len(d.Slides),
		TextScale:   f.TextScale(),
		Attribution: d.Attribution,
	}.Clamp()
}

// ResolveImages signs every stored image path and the brand logo so the
// renderers can load them. Images whose signing fails are dropped.
func (d *Deck) ResolveImages(ctx context.Context, signer Signer, ttl time.Duration) {
	if signer == nil {
		return
	}
	if d.BrandRow != nil && d.BrandRow.LogoPath != "" {
		u, err := signer.PresignedURL(ctx, d.BrandRow.LogoPath, ttl)
		if err != nil {
			slog.Warn("brand logo unavailable", "brand_kit", d.BrandRow.ID, "error", err)
		} else {
			d.Brand.LogoURL = u
		}
	}
	for i := range d.Slides {
		bg := d.Slides[i].Content.Background
		d.Slides[i].Content.Background = bg.Rewrite(func(r rendermodel.ImageRef) rendermodel.ImageRef {
			if !r.Stored() {
				return r
			}
			u, err := signer.PresignedURL(ctx, r.Path, ttl)
			if err != nil {
				slog.Warn("background image unavailable", "path", r.Path, "error", err)
				r.URL = ""
				return r
			}
			r.URL = u
			return r
		})
	}
}
