package api

import (
	"sync"

	imagepkg "github.com/youruser/badgeapp/internal/image"
	"github.com/youruser/badgeapp/internal/layout"
	"github.com/youruser/badgeapp/internal/roster"
)

// Workspace is the session state: templates, roster and layout.
// Readers get copies; composition never sees a half-updated value.
type Workspace struct {
	mu      sync.RWMutex
	front   *imagepkg.Template
	back    *imagepkg.Template
	records []roster.Record
	layout  layout.Config
}

func NewWorkspace(cfg layout.Config) *Workspace {
	return &Workspace{layout: cfg.Clone()}
}

func (w *Workspace) SetTemplate(face imagepkg.Face, t *imagepkg.Template) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if face == imagepkg.Back {
		w.back = t
		return
	}
	w.front = t
}

func (w *Workspace) Templates() (front, back *imagepkg.Template) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.front, w.back
}

func (w *Workspace) SetRecords(recs []roster.Record) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append([]roster.Record(nil), recs...)
}

func (w *Workspace) Records() []roster.Record {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]roster.Record(nil), w.records...)
}

func (w *Workspace) Layout() layout.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.layout.Clone()
}

func (w *Workspace) SetLayout(cfg layout.Config) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.layout = cfg.Clone()
}

// UpdateLayout applies fn to the current layout and stores the result.
func (w *Workspace) UpdateLayout(fn func(layout.Config) (layout.Config, error)) (layout.Config, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := fn(w.layout.Clone())
	if err != nil {
		return layout.Config{}, err
	}
	w.layout = next
	return next.Clone(), nil
}
