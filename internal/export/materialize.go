// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strings"

	"golang.org/x/crypto/blake2b"

	"slidecraft/internal/deck"
	"slidecraft/internal/imaging"
	"slidecraft/internal/rendermodel"
	"slidecraft/internal/storage"
)

// materialize re-hosts every external background image of the deck in
// our bucket and points the slides at short-lived signed URLs, so the
// browser never waits on a third-party host mid-export. Images that
// cannot be fetched, decoded or stored are dropped from their slide.
func (o *Orchestrator) materialize(ctx context.Context, d *deck.Deck, owner string) {
	done := make(map[string]string)
	for i := range d.Slides {
		bg := d.Slides[i].Content.Background
		d.Slides[i].Content.Background = bg.Rewrite(func(r rendermodel.ImageRef) rendermodel.ImageRef {
			if r.Stored() || !external(r.URL) {
				return r
			}
			u, ok := done[r.URL]
			if !ok {
				u = o.rehost(ctx, owner, r.URL)
				done[r.URL] = u
			}
			r.URL = u
			return r
		})
	}
}

// rehost returns the signed URL of the stored copy, or "" on failure.
func (o *Orchestrator) rehost(ctx context.Context, owner, src string) string {
	if o.fetch == nil {
		return src
	}
	data, err := o.fetch.Fetch(ctx, src)
	if err != nil {
		slog.Warn("dropping background image", "url", src, "error", err)
		return ""
	}
	img, err := imaging.Normalize(data, imaging.Materialized)
	if err != nil {
		slog.Warn("dropping background image", "url", src, "error", err)
		return ""
	}

	key := storage.MaterializedPath(owner, digest(src))
	if err := o.upload(ctx, key, img.ContentType, img.Data); err != nil {
		slog.Warn("dropping background image", "url", src, "error", err)
		return ""
	}
	u, err := o.objects.PresignedURL(ctx, key, o.cfg.MaterializeTTL)
	if err != nil {
		slog.Warn("dropping background image", "url", src, "error", err)
		return ""
	}
	return u
}

func external(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://")
}

// digest names a source URL in storage.
func digest(src string) string {
	sum := blake2b.Sum256([]byte(src))
	return hex.EncodeToString(sum[:16])
}
