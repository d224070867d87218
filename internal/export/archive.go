// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/klauspost/compress/zip"

	"slidecraft/internal/rendermodel"
	"slidecraft/internal/storage"
)

// ArchiveContents is what goes into the downloadable zip.
type ArchiveContents struct {
	Ext      string   // slide file extension
	Slides   [][]byte // primary slide images in order
	Caption  string   // caption.txt body; empty omits the file
	Credits  []rendermodel.Credit
	Modified time.Time
}

// BuildArchive writes the slides as 01.ext, 02.ext, ... followed by
// caption.txt and CREDITS.txt when they have content. Slide images are
// stored uncompressed.
func BuildArchive(c ArchiveContents) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, img := range c.Slides {
		if err := writeEntry(zw, storage.Seq(i+1)+"."+c.Ext, img, zip.Store, c.Modified); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(c.Caption) != "" {
		if err := writeEntry(zw, "caption.txt", []byte(c.Caption), zip.Deflate, c.Modified); err != nil {
			return nil, err
		}
	}
	if credits := CreditsText(c.Credits); credits != "" {
		if err := writeEntry(zw, "CREDITS.txt", []byte(credits), zip.Deflate, c.Modified); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte, method uint16, modified time.Time) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive %s: %w", name, err)
	}
	return nil
}

// CreditsText lists each photo once, keyed by provider and photo id, in
// the order first seen. It is empty when no image needs attribution.
func CreditsText(credits []rendermodel.Credit) string {
	seen := make(map[string]bool)
	var lines []string
	for _, c := range credits {
		if c.Source == "" {
			continue
		}
		key := c.Source + "/" + c.ID
		if c.ID == "" {
			key = c.Source + "/" + c.PhotoURL + "/" + c.Author
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, creditLine(c))
	}
	if len(lines) == 0 {
		return ""
	}
	return "Photo credits\n\n" + strings.Join(lines, "\n") + "\n"
}

func creditLine(c rendermodel.Credit) string {
	author := c.Author
	if author == "" {
		author = "Unknown"
	}
	line := "Photo by " + author
	if c.AuthorURL != "" {
		line += " (" + c.AuthorURL + ")"
	}
	line += " on " + sourceName(c.Source)
	if c.PhotoURL != "" {
		line += ": " + c.PhotoURL
	}
	return line
}

func sourceName(s string) string {
	switch strings.ToLower(s) {
	case "unsplash":
		return "Unsplash"
	case "pexels":
		return "Pexels"
	case "pixabay":
		return "Pixabay"
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}
