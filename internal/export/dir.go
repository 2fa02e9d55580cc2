package export

import (
	"os"
	"path/filepath"

	"github.com/youruser/badgeapp/internal/batch"
	"github.com/youruser/badgeapp/internal/util"
)

// WriteDir writes every face as a PNG file under dir and returns the paths.
func WriteDir(dir string, cards []batch.CardPair) ([]string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, &PackagingError{Format: "png", Err: err}
	}
	var paths []string
	for _, e := range entries(cards) {
		b, err := e.face.PNG()
		if err != nil {
			return paths, &PackagingError{Format: "png", Err: err}
		}
		p := filepath.Join(dir, e.name)
		if err := os.WriteFile(p, b, 0o644); err != nil {
			return paths, &PackagingError{Format: "png", Err: err}
		}
		paths = append(paths, p)
	}
	return paths, nil
}
