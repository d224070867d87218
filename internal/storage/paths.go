// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"fmt"
	"path"
)

// ExportPaths builds the object keys of one export. Every artifact lives
// under exports/{owner}/{carousel}/{export}/. Slide and variant numbers
// are 1-based and zero-padded to two digits.
type ExportPaths struct {
	Owner, Carousel, Export string
}

// Root is the prefix shared by every artifact of the export.
func (p ExportPaths) Root() string {
	return path.Join("exports", p.Owner, p.Carousel, p.Export)
}

// Slide is the primary image of slide n.
func (p ExportPaths) Slide(n int, ext string) string {
	return path.Join(p.Root(), "slides", Seq(n)+"."+ext)
}

// Overlay is the transparent foreground of slide n.
func (p ExportPaths) Overlay(n int) string {
	return path.Join(p.Root(), "overlays", Seq(n)+".png")
}

// VideoBackground is background variant v of slide n.
func (p ExportPaths) VideoBackground(n, v int) string {
	return path.Join(p.Root(), "video-bg", Seq(n), Seq(v)+".png")
}

// Archive is the downloadable zip.
func (p ExportPaths) Archive() string {
	return path.Join(p.Root(), "archive.zip")
}

// MaterializedPath is where an external image re-hosted for owner lives.
// digest identifies the source URL.
func MaterializedPath(owner, digest string) string {
	return path.Join("materialized", owner, digest+".jpg")
}

// Seq formats a 1-based sequence number as two digits.
func Seq(n int) string {
	return fmt.Sprintf("%02d", n)
}
