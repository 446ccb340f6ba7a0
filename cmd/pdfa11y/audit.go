package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/internal/audit"
	"github.com/jackzampolin/pdfa11y/internal/config"
	"github.com/jackzampolin/pdfa11y/internal/metrics"
	"github.com/jackzampolin/pdfa11y/internal/render"
	"github.com/jackzampolin/pdfa11y/internal/rules"
)

var (
	auditTitle     string
	auditLanguage  string
	auditOut       string
	auditFailUnder int
)

var auditCmd = &cobra.Command{
	Use:   "audit <file.pdf>",
	Short: "Audit a PDF locally without a server",
	Long: `Audit a PDF in-process and print its report.

--title and --lang apply the same fixes as the remediate endpoint before
the report is printed; --out writes the resulting document.

Examples:
  pdfa11y audit report.pdf
  pdfa11y audit report.pdf -o json --fail-under 90
  pdfa11y audit report.pdf --title "Annual Report" --lang en-US --out fixed.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cm, err := localConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()
		level, err := config.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		// Report goes to stdout; keep logs out of it.
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: max(level, slog.LevelWarn)}))

		svc, err := newAuditService(cfg, logger, nil)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		rec, err := svc.Analyze(ctx, filepath.Base(args[0]), data)
		if err != nil {
			return err
		}

		if auditTitle != "" {
			if _, err := svc.FixTitle(ctx, rec.ID, auditTitle); err != nil {
				return err
			}
		}
		if auditLanguage != "" {
			if _, err := svc.FixLanguage(ctx, rec.ID, auditLanguage); err != nil {
				return err
			}
		}

		report, err := svc.Report(rec.ID)
		if err != nil {
			return err
		}
		if auditOut != "" {
			_, pdf, err := svc.Download(rec.ID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(auditOut, pdf, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", auditOut, err)
			}
			logger.Warn("wrote document", "path", auditOut, "bytes", len(pdf))
		}
		if err := api.Output(report); err != nil {
			return err
		}
		if auditFailUnder > 0 && report.Score < auditFailUnder {
			return fmt.Errorf("score %d is below %d", report.Score, auditFailUnder)
		}
		return nil
	},
}

// newAuditService builds the audit engine from configuration. recorder may
// be nil.
func newAuditService(cfg *config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*audit.Service, error) {
	severities, err := rules.DefaultSeverities().WithOverrides(cfg.Audit.SeverityOverrides)
	if err != nil {
		return nil, fmt.Errorf("audit.severity_overrides: %w", err)
	}
	ac := audit.Config{
		Severities: severities,
		Rasterizer: render.NewPdftoppm(render.Config{
			Binary:   cfg.Render.Binary,
			Timeout:  cfg.RenderTimeout(),
			Attempts: cfg.Render.MaxAttempts,
			Logger:   logger,
		}),
		RasterScale: cfg.Render.RasterScale,
		Logger:      logger,
	}
	if recorder != nil {
		ac.Recorder = recorder
	}
	return audit.New(ac)
}

func init() {
	auditCmd.Flags().StringVar(&auditTitle, "title", "", "set the document title before reporting")
	auditCmd.Flags().StringVar(&auditLanguage, "lang", "", "set the document language (BCP 47) before reporting")
	auditCmd.Flags().StringVar(&auditOut, "out", "", "write the resulting PDF to this path")
	auditCmd.Flags().IntVar(&auditFailUnder, "fail-under", 0, "exit non-zero when the score is below this value")

	rootCmd.AddCommand(auditCmd)
}
