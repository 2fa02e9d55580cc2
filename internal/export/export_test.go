package export

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/badgeapp/internal/batch"
	imagepkg "github.com/youruser/badgeapp/internal/image"
	"github.com/youruser/badgeapp/internal/roster"
)

func face(f imagepkg.Face, w, h int) *imagepkg.RenderedFace {
	return &imagepkg.RenderedFace{Face: f, Width: w, Height: h, Image: imaging.New(w, h, image.White.C)}
}

func testCards() []batch.CardPair {
	recs := []roster.Record{
		{Identifier: "12345", FirstName: "Jane", LastName: "Doe"},
		{Identifier: "A/7", FirstName: " Seán ", LastName: "O'Brien"},
	}
	out := make([]batch.CardPair, len(recs))
	for i, r := range recs {
		out[i] = batch.CardPair{Seq: i + 1, Record: r, Front: face(imagepkg.Front, 64, 40), Back: face(imagepkg.Back, 64, 40)}
	}
	return out
}

func TestFileName(t *testing.T) {
	jane := roster.Record{Identifier: "12345", FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "001_Jane_Doe_12345_FRONT.png", FileName(1, 12, jane, imagepkg.Front))
	assert.Equal(t, "0042_Jane_Doe_12345_BACK.png", FileName(42, 1500, jane, imagepkg.Back))

	odd := roster.Record{Identifier: " A/7 ", FirstName: "Seán", LastName: "O'Brien-Smith"}
	assert.Equal(t, "002_Seán_O_Brien-Smith_A_7_FRONT.png", FileName(2, 2, odd, imagepkg.Front))

	assert.Equal(t, "003_BACK.png", FileName(3, 3, roster.Record{}, imagepkg.Back))
}

func TestWriteZIP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteZIP(&buf, testCards()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"001_Jane_Doe_12345_FRONT.png",
		"001_Jane_Doe_12345_BACK.png",
		"002_Seán_O_Brien_A_7_FRONT.png",
		"002_Seán_O_Brien_A_7_BACK.png",
	}, names)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	img, err := png.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 40), img.Bounds())
}

func TestWriteZIPEmpty(t *testing.T) {
	err := WriteZIP(&bytes.Buffer{}, nil)
	var pe *PackagingError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "zip", pe.Format)
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cards")
	paths, err := WriteDir(dir, testCards()[:1])
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestPagesOrder(t *testing.T) {
	cards := testCards()

	inter := Pages(cards, OrderInterleaved)
	assert.Equal(t, []*imagepkg.RenderedFace{cards[0].Front, cards[0].Back, cards[1].Front, cards[1].Back}, inter)

	grouped := Pages(cards, OrderGrouped)
	assert.Equal(t, []*imagepkg.RenderedFace{cards[0].Front, cards[1].Front, cards[0].Back, cards[1].Back}, grouped)
}

func TestParsePageOrder(t *testing.T) {
	o, err := ParsePageOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderInterleaved, o)
	o, err = ParsePageOrder("grouped")
	require.NoError(t, err)
	assert.Equal(t, OrderGrouped, o)
	_, err = ParsePageOrder("random")
	assert.Error(t, err)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, testCards(), PrintOptions{Order: OrderGrouped, DPI: 300}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	err := WritePDF(&bytes.Buffer{}, nil, PrintOptions{})
	var pe *PackagingError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "pdf", pe.Format)
}
