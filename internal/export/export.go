// Package export packages composed cards as image files, ZIP archives and print-ready PDFs.
package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/youruser/badgeapp/internal/batch"
	imagepkg "github.com/youruser/badgeapp/internal/image"
	"github.com/youruser/badgeapp/internal/roster"
)

// PackagingError reports a failed export. The composed cards are unaffected.
type PackagingError struct {
	Format string
	Err    error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("package %s: %v", e.Format, e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }

// FileName builds the archive name of one face, e.g. "001_Jane_Doe_12345_FRONT.png".
// The sequence is zero-padded to at least three digits, or to the width of total.
func FileName(seq, total int, rec roster.Record, face imagepkg.Face) string {
	width := max(3, len(fmt.Sprint(total)))
	parts := []string{fmt.Sprintf("%0*d", width, seq)}
	if name := sanitize(rec.FirstName + " " + rec.LastName); name != "" {
		parts = append(parts, name)
	}
	if id := sanitize(rec.Identifier); id != "" {
		parts = append(parts, id)
	}
	parts = append(parts, strings.ToUpper(face.String()))
	return strings.Join(parts, "_") + ".png"
}

// sanitize keeps letters, digits and '-', collapsing everything else to single underscores.
func sanitize(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

type entry struct {
	name string
	face *imagepkg.RenderedFace
}

func entries(cards []batch.CardPair) []entry {
	out := make([]entry, 0, 2*len(cards))
	total := len(cards)
	for _, c := range cards {
		out = append(out,
			entry{FileName(c.Seq, total, c.Record, imagepkg.Front), c.Front},
			entry{FileName(c.Seq, total, c.Record, imagepkg.Back), c.Back},
		)
	}
	return out
}
