package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/youruser/badgeapp/internal/batch"
	"github.com/youruser/badgeapp/internal/export"
	imagepkg "github.com/youruser/badgeapp/internal/image"
	"github.com/youruser/badgeapp/internal/roster"
	"github.com/youruser/badgeapp/internal/util"
)

type generateOptions struct {
	roster     string
	front      string
	back       string
	layoutPath string
	zipPath    string
	pdfPath    string
	outDir     string
	order      string
	only       []string
	search     string
	dpi        int
	yes        bool
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate badges for every record in a roster",
		Example: `  # Every card as PNG files
  badgegen generate --roster staff.xlsx --out-dir badges/

  # Print-ready PDF with all fronts first, then all backs
  badgegen generate --roster staff.csv --pdf badges.pdf --order grouped

  # Re-issue two badges
  badgegen generate --roster staff.csv --only 12345,1234567 --zip reissue.zip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.zipPath == "" && opts.pdfPath == "" && opts.outDir == "" {
				return fmt.Errorf("nothing to write: set --zip, --pdf or --out-dir")
			}
			order, err := export.ParsePageOrder(opts.order)
			if err != nil {
				return err
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if opts.front == "" {
				opts.front = cfg.FrontPath
			}
			if opts.back == "" {
				opts.back = cfg.BackPath
			}
			if opts.layoutPath != "" {
				cfg.LayoutPath = opts.layoutPath
			}
			if opts.dpi <= 0 {
				opts.dpi = cfg.DPI
			}
			lay, err := cfg.Layout()
			if err != nil {
				return err
			}

			records, err := roster.Load(opts.roster)
			if err != nil {
				return err
			}
			records = roster.Filter(records, roster.FilterOptions{
				Identifiers: opts.only,
				FreeWords:   opts.search,
				SkipBlank:   true,
			})
			logger.Info("roster loaded", "file", opts.roster, "records", len(records))

			front, err := imagepkg.LoadTemplateFile(imagepkg.Front, opts.front)
			if err != nil {
				return err
			}
			back, err := imagepkg.LoadTemplateFile(imagepkg.Back, opts.back)
			if err != nil {
				return err
			}

			var fonts *imagepkg.Fonts
			if cfg.FontPath != "" {
				if fonts, err = imagepkg.LoadFontFiles(cfg.FontPath, cfg.BoldPath); err != nil {
					return err
				}
			}
			composer, err := imagepkg.NewComposer(imagepkg.ComposerConfig{Fonts: fonts, Logger: logger})
			if err != nil {
				return err
			}

			confirm := func(m batch.DimensionMismatch) bool {
				if opts.yes {
					return true
				}
				return prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), m.Error()+". Generate anyway?")
			}
			run, err := batch.New(composer, logger, nil).Start(records, batch.Templates{Front: front, Back: back}, lay, confirm)
			if err != nil {
				return err
			}

			start := time.Now()
			cards, err := run.Collect(cmd.Context(), progressLogger(logger, run.Total()))
			if err != nil {
				return err
			}
			warnings := 0
			for _, c := range cards {
				for _, w := range c.Warnings() {
					logger.Warn("degraded card", "seq", c.Seq, "identifier", c.Record.Identifier, "warning", w)
					warnings++
				}
			}
			logger.Info("cards composed", "cards", len(cards), "warnings", warnings, "elapsed", time.Since(start).Round(time.Millisecond))

			return writeOutputs(logger, cards, opts, export.PrintOptions{Order: order, DPI: opts.dpi})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.roster, "roster", "r", "", "Roster file (.csv, .xlsx or .parquet)")
	f.StringVar(&opts.front, "front", "", "Front template image (default BADGE_FRONT)")
	f.StringVar(&opts.back, "back", "", "Back template image (default BADGE_BACK)")
	f.StringVarP(&opts.layoutPath, "layout", "l", "", "Layout YAML file (default BADGE_LAYOUT or built-in)")
	f.StringVar(&opts.zipPath, "zip", "", "Write every face into this ZIP archive")
	f.StringVar(&opts.pdfPath, "pdf", "", "Write a print-ready PDF, one face per page")
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "Write every face as a PNG file into this directory")
	f.StringVar(&opts.order, "order", string(export.OrderInterleaved), "PDF page order: interleaved or grouped")
	f.StringSliceVar(&opts.only, "only", nil, "Only generate these badge numbers")
	f.StringVar(&opts.search, "search", "", "Only generate records whose name or number contains every word")
	f.IntVar(&opts.dpi, "dpi", 0, "Template resolution used to size PDF pages (default BADGE_DPI)")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Continue without asking when template sizes differ")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}

func progressLogger(logger *slog.Logger, total int) func(batch.Progress) {
	every := max(1, total/10)
	return func(p batch.Progress) {
		if p.Completed%every == 0 || p.Completed == p.Total {
			logger.Info("progress", "completed", p.Completed, "total", p.Total)
		}
	}
}

func writeOutputs(logger *slog.Logger, cards []batch.CardPair, opts generateOptions, popts export.PrintOptions) error {
	if opts.outDir != "" {
		paths, err := export.WriteDir(opts.outDir, cards)
		if err != nil {
			return err
		}
		logger.Info("wrote images", "dir", opts.outDir, "files", len(paths))
	}
	if opts.zipPath != "" {
		if err := writeFile(opts.zipPath, func(w io.Writer) error { return export.WriteZIP(w, cards) }); err != nil {
			return err
		}
		logger.Info("wrote archive", "path", opts.zipPath)
	}
	if opts.pdfPath != "" {
		if err := writeFile(opts.pdfPath, func(w io.Writer) error { return export.WritePDF(w, cards, popts) }); err != nil {
			return err
		}
		logger.Info("wrote pdf", "path", opts.pdfPath, "order", popts.Order)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// prompt asks a yes/no question; anything but y or yes declines.
func prompt(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
