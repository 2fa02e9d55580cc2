package api

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/youruser/badgeapp/internal/batch"
	"github.com/youruser/badgeapp/internal/export"
	imagepkg "github.com/youruser/badgeapp/internal/image"
	"github.com/youruser/badgeapp/internal/layout"
	"github.com/youruser/badgeapp/internal/roster"
)

type Handler struct {
	ws       *Workspace
	composer *imagepkg.Composer
	pipeline *batch.Pipeline
	store    *batch.Store
	encoder  imagepkg.BarcodeEncoder
	logger   *slog.Logger
	dpi      int
}

type Deps struct {
	Workspace *Workspace
	Composer  *imagepkg.Composer
	Pipeline  *batch.Pipeline
	Store     *batch.Store
	Encoder   imagepkg.BarcodeEncoder
	Logger    *slog.Logger
	DPI       int
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		ws:       d.Workspace,
		composer: d.Composer,
		pipeline: d.Pipeline,
		store:    d.Store,
		encoder:  d.Encoder,
		logger:   d.Logger,
		dpi:      d.DPI,
	}
	if h.encoder == nil {
		h.encoder = imagepkg.SymbolEncoder{}
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.dpi <= 0 {
		h.dpi = export.DefaultDPI
	}
	return h
}

func errorJSON(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// health
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// uploadTemplate accepts a multipart "file" or a JSON {"url": ...} body.
func (h *Handler) uploadTemplate(c *gin.Context) {
	face, err := imagepkg.ParseFace(c.Param("face"))
	if err != nil {
		errorJSON(c, http.StatusNotFound, err)
		return
	}

	var tpl *imagepkg.Template
	if strings.Contains(c.ContentType(), "json") {
		var req struct {
			URL string `json:"url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
			errorJSON(c, http.StatusBadRequest, errors.New("url is required"))
			return
		}
		tpl, err = imagepkg.FetchTemplate(c.Request.Context(), face, req.URL)
	} else {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			errorJSON(c, http.StatusBadRequest, fmt.Errorf("failed to read file: %w", ferr))
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			errorJSON(c, http.StatusBadRequest, ferr)
			return
		}
		defer f.Close()
		tpl, err = imagepkg.LoadTemplate(face, f)
	}
	if err != nil {
		h.logger.Warn("template rejected", "face", face, "err", err)
		errorJSON(c, http.StatusUnprocessableEntity, err)
		return
	}

	h.ws.SetTemplate(face, tpl)
	h.logger.Info("template loaded", "face", face, "width", tpl.Width, "height", tpl.Height)

	resp := gin.H{"face": face.String(), "width": tpl.Width, "height": tpl.Height}
	if front, back := h.ws.Templates(); front != nil && back != nil && front.Size() != back.Size() {
		resp["warning"] = batch.DimensionMismatch{Front: front.Size(), Back: back.Size()}.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) uploadRoster(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, fmt.Errorf("failed to read file: %w", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()

	recs, err := roster.Parse(fh.Filename, f)
	if err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err)
		return
	}
	h.ws.SetRecords(recs)
	h.logger.Info("roster loaded", "file", fh.Filename, "records", len(recs))

	sample := recs
	if len(sample) > 5 {
		sample = sample[:5]
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recs), "sample": sample})
}

func (h *Handler) getLayout(c *gin.Context) {
	c.JSON(http.StatusOK, h.ws.Layout())
}

// putLayout replaces the layout; omitted keys keep their default values.
func (h *Handler) putLayout(c *gin.Context) {
	cfg := layout.Default()
	if err := c.ShouldBindJSON(&cfg); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	h.ws.SetLayout(cfg)
	c.JSON(http.StatusOK, cfg)
}

// repositionField is the drop target of drag-to-place.
func (h *Handler) repositionField(c *gin.Context) {
	var req struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.X == nil || req.Y == nil {
		errorJSON(c, http.StatusBadRequest, errors.New("x and y are required"))
		return
	}
	field := layout.Field(c.Param("field"))
	cfg, err := h.ws.UpdateLayout(func(cur layout.Config) (layout.Config, error) {
		return cur.Reposition(field, *req.X, *req.Y)
	})
	if err != nil {
		errorJSON(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, cfg.Fields[field])
}

// previewInput resolves the face, record and canvas a preview request refers to.
func (h *Handler) previewInput(c *gin.Context) (imagepkg.Face, roster.Record, *imagepkg.Template, layout.Config, image.Point, bool) {
	face, err := imagepkg.ParseFace(c.Param("face"))
	if err != nil {
		errorJSON(c, http.StatusNotFound, err)
		return 0, roster.Record{}, nil, layout.Config{}, image.Point{}, false
	}
	front, back := h.ws.Templates()
	tpl := front
	if face == imagepkg.Back {
		tpl = back
	}
	recs := h.ws.Records()
	if tpl == nil || len(recs) == 0 {
		errorJSON(c, http.StatusBadRequest, fmt.Errorf("%w: upload the roster and %s template first", batch.ErrMissingInput, face))
		return 0, roster.Record{}, nil, layout.Config{}, image.Point{}, false
	}
	idx, _ := strconv.Atoi(c.DefaultQuery("record", "0"))
	if idx < 0 || idx >= len(recs) {
		errorJSON(c, http.StatusBadRequest, fmt.Errorf("record %d out of range [0,%d)", idx, len(recs)))
		return 0, roster.Record{}, nil, layout.Config{}, image.Point{}, false
	}

	cfg := h.ws.Layout()
	canvas := imagepkg.CanvasSize(front, back)
	if !cfg.Canvas.IsZero() {
		canvas = cfg.Canvas.Point()
	}
	return face, recs[idx], tpl, cfg, canvas, true
}

// preview renders one face as PNG; hide_overlays=true draws only the background.
func (h *Handler) preview(c *gin.Context) {
	face, rec, tpl, cfg, canvas, ok := h.previewInput(c)
	if !ok {
		return
	}
	hide, _ := strconv.ParseBool(c.DefaultQuery("hide_overlays", "false"))
	out, err := h.composer.ComposeFace(face, rec, tpl, cfg, canvas, imagepkg.Options{HideOverlays: hide})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	b, err := out.PNG()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// overlays lists the positioned layers for drag-to-place controls.
func (h *Handler) overlays(c *gin.Context) {
	face, rec, _, cfg, canvas, ok := h.previewInput(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"canvas":   gin.H{"width": canvas.X, "height": canvas.Y},
		"overlays": h.composer.Overlays(face, rec, cfg, canvas),
	})
}

func (h *Handler) startBatch(c *gin.Context) {
	var req struct {
		ConfirmMismatch bool `json:"confirm_mismatch"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, err)
			return
		}
	}

	front, back := h.ws.Templates()
	run, err := h.pipeline.Start(h.ws.Records(), batch.Templates{Front: front, Back: back}, h.ws.Layout(),
		func(batch.DimensionMismatch) bool { return req.ConfirmMismatch })
	if err != nil {
		var mismatch batch.DimensionMismatch
		switch {
		case errors.Is(err, batch.ErrAborted) && errors.As(err, &mismatch):
			c.JSON(http.StatusConflict, gin.H{
				"error":    err.Error(),
				"mismatch": mismatch,
				"hint":     "resend with confirm_mismatch=true to generate anyway",
			})
		default:
			errorJSON(c, http.StatusBadRequest, err)
		}
		return
	}

	b := h.store.Begin(c.Request.Context(), run)
	c.JSON(http.StatusAccepted, b.Snapshot())
}

func (h *Handler) currentBatch(c *gin.Context) {
	b, ok := h.store.Current()
	if !ok {
		errorJSON(c, http.StatusNotFound, errors.New("no batch"))
		return
	}
	c.JSON(http.StatusOK, b.Snapshot())
}

func (h *Handler) discardBatch(c *gin.Context) {
	h.store.Discard()
	c.Status(http.StatusNoContent)
}

// finishedCards returns the cards of a completed batch, or writes the reason there are none.
func (h *Handler) finishedCards(c *gin.Context) ([]batch.CardPair, bool) {
	b, ok := h.store.Current()
	if !ok {
		errorJSON(c, http.StatusNotFound, errors.New("no batch"))
		return nil, false
	}
	if s := b.Snapshot(); s.Status != batch.StatusDone {
		c.JSON(http.StatusConflict, gin.H{"error": "batch is " + string(s.Status), "progress": s.Progress})
		return nil, false
	}
	return b.Cards(), true
}

func (h *Handler) downloadZIP(c *gin.Context) {
	cards, ok := h.finishedCards(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteZIP(&buf, cards); err != nil {
		h.logger.Error("zip export failed", "err", err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="badges.zip"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func (h *Handler) downloadPDF(c *gin.Context) {
	order, err := export.ParsePageOrder(c.Query("order"))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	cards, ok := h.finishedCards(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, cards, export.PrintOptions{Order: order, DPI: h.dpi}); err != nil {
		h.logger.Error("pdf export failed", "err", err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="badges.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// barcode returns a PNG of the code for the "text" query param.
func (h *Handler) barcode(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		errorJSON(c, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	style := h.ws.Layout().Barcode
	if s := c.Query("symbology"); s != "" {
		style.Symbology = strings.ToUpper(s)
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if v, err := strconv.Atoi(sizeStr); err == nil && v > 0 {
			style.ModuleHeight = v
		}
	}
	b, err := imagepkg.BarcodePNG(h.encoder, text, style)
	if err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
