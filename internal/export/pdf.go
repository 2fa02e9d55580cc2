package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/youruser/badgeapp/internal/batch"
	imagepkg "github.com/youruser/badgeapp/internal/image"
)

// PageOrder selects how faces are sequenced for printing.
type PageOrder string

const (
	// OrderInterleaved prints front, back, front, back, ... for duplex printers.
	OrderInterleaved PageOrder = "interleaved"
	// OrderGrouped prints all fronts, then all backs, for two-pass feeding.
	OrderGrouped PageOrder = "grouped"
)

const DefaultDPI = 300

// ParsePageOrder accepts "interleaved" or "grouped"; empty means interleaved.
func ParsePageOrder(s string) (PageOrder, error) {
	switch PageOrder(s) {
	case "", OrderInterleaved:
		return OrderInterleaved, nil
	case OrderGrouped:
		return OrderGrouped, nil
	}
	return "", fmt.Errorf("unknown page order %q", s)
}

type PrintOptions struct {
	Order PageOrder
	DPI   int // pixels per inch of the faces; sets the page size
}

// Pages returns the faces in print order.
func Pages(cards []batch.CardPair, order PageOrder) []*imagepkg.RenderedFace {
	out := make([]*imagepkg.RenderedFace, 0, 2*len(cards))
	if order == OrderGrouped {
		for _, c := range cards {
			out = append(out, c.Front)
		}
		for _, c := range cards {
			out = append(out, c.Back)
		}
		return out
	}
	for _, c := range cards {
		out = append(out, c.Front, c.Back)
	}
	return out
}

// WritePDF writes one face per page, each page the physical size of the card.
func WritePDF(w io.Writer, cards []batch.CardPair, opt PrintOptions) error {
	pages := Pages(cards, opt.Order)
	if len(pages) == 0 {
		return &PackagingError{Format: "pdf", Err: errors.New("no cards")}
	}
	dpi := opt.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	toPt := func(px int) float64 { return float64(px) * 72 / float64(dpi) }

	first := pages[0]
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: toPt(first.Width), Ht: toPt(first.Height)},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("badgeapp", true)

	imgOpt := fpdf.ImageOptions{ImageType: "PNG"}
	for i, face := range pages {
		b, err := face.PNG()
		if err != nil {
			return &PackagingError{Format: "pdf", Err: err}
		}
		name := fmt.Sprintf("face%d", i)
		pw, ph := toPt(face.Width), toPt(face.Height)
		doc.AddPageFormat("P", fpdf.SizeType{Wd: pw, Ht: ph})
		doc.RegisterImageOptionsReader(name, imgOpt, bytes.NewReader(b))
		doc.ImageOptions(name, 0, 0, pw, ph, false, imgOpt, 0, "")
		if err := doc.Error(); err != nil {
			return &PackagingError{Format: "pdf", Err: err}
		}
	}
	if err := doc.Output(w); err != nil {
		return &PackagingError{Format: "pdf", Err: err}
	}
	return nil
}
