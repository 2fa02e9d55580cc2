package export

import (
	"errors"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/youruser/badgeapp/internal/batch"
)

// WriteZIP writes every face as a PNG entry, front then back per card.
func WriteZIP(w io.Writer, cards []batch.CardPair) error {
	if len(cards) == 0 {
		return &PackagingError{Format: "zip", Err: errors.New("no cards")}
	}
	zw := zip.NewWriter(w)
	for _, e := range entries(cards) {
		b, err := e.face.PNG()
		if err != nil {
			return &PackagingError{Format: "zip", Err: err}
		}
		// PNG data is already deflated
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		if err != nil {
			return &PackagingError{Format: "zip", Err: err}
		}
		if _, err := fw.Write(b); err != nil {
			return &PackagingError{Format: "zip", Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return &PackagingError{Format: "zip", Err: err}
	}
	return nil
}
