package api

import (
	"errors"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/youruser/badgeapp/internal/batch"
	"github.com/youruser/badgeapp/internal/config"
	imagepkg "github.com/youruser/badgeapp/internal/image"
	"github.com/youruser/badgeapp/internal/metrics"
)

// NewServer wires the router from process config. Templates found at the
// configured paths are preloaded; missing ones are left for upload.
func NewServer(cfg config.Config, logger *slog.Logger) (*gin.Engine, error) {
	lay, err := cfg.Layout()
	if err != nil {
		return nil, err
	}

	var fonts *imagepkg.Fonts
	if cfg.FontPath != "" {
		if fonts, err = imagepkg.LoadFontFiles(cfg.FontPath, cfg.BoldPath); err != nil {
			return nil, err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	composer, err := imagepkg.NewComposer(imagepkg.ComposerConfig{Fonts: fonts, Logger: logger, Metrics: m})
	if err != nil {
		return nil, err
	}

	ws := NewWorkspace(lay)
	preload(ws, imagepkg.Front, cfg.FrontPath, logger)
	preload(ws, imagepkg.Back, cfg.BackPath, logger)

	h := NewHandler(Deps{
		Workspace: ws,
		Composer:  composer,
		Pipeline:  batch.New(composer, logger, m),
		Store:     batch.NewStore(),
		Logger:    logger,
		DPI:       cfg.DPI,
	})

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	RegisterRoutes(r, h, reg)
	return r, nil
}

func preload(ws *Workspace, face imagepkg.Face, path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	tpl, err := imagepkg.LoadTemplateFile(face, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no template at startup", "face", face, "path", path)
		} else {
			logger.Warn("failed to load template at startup", "face", face, "path", path, "err", err)
		}
		return
	}
	ws.SetTemplate(face, tpl)
	logger.Info("template preloaded", "face", face, "path", path, "width", tpl.Width, "height", tpl.Height)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}
