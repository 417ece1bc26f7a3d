// Command weather-mailer sends per-recipient weather notifications by email.
//
// Subcommands:
//
//	send     run one delivery cycle and exit (default; for cron/CI runners)
//	serve    run cycles on an interval and expose the HTTP API
//	preview  render one recipient's notification to a file without sending
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-mailer/internal/api/http"
	"github.com/i474232898/weather-mailer/internal/config"
	"github.com/i474232898/weather-mailer/internal/mailer"
	"github.com/i474232898/weather-mailer/internal/notifier"
	"github.com/i474232898/weather-mailer/internal/recipients"
	"github.com/i474232898/weather-mailer/internal/render"
	"github.com/i474232898/weather-mailer/internal/scheduler"
	"github.com/i474232898/weather-mailer/internal/store"
	"github.com/i474232898/weather-mailer/internal/weather"
	"github.com/i474232898/weather-mailer/internal/weather/providers"
)

func main() {
	root := &cobra.Command{
		Use:   "weather-mailer",
		Short: "Fetch weather for each recipient and email a forecast",
		// Errors are logged below; keep cobra from printing them twice.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runSend,
	}

	root.AddCommand(
		sendCmd(),
		serveCmd(),
		previewCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}

// app bundles everything a subcommand needs.
type app struct {
	cfg        *config.AppConfig
	recipients []weather.Recipient
	service    *notifier.Service
}

func setup(sender mailer.Sender) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	list, err := recipients.Load(cfg.RecipientsFile)
	if err != nil {
		return nil, err
	}

	if sender == nil {
		smtp, err := mailer.NewSMTPSender(cfg.SMTP())
		if err != nil {
			return nil, fmt.Errorf("failed to configure smtp: %w", err)
		}
		sender = smtp
	}

	// Shared HTTP client for upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	source := providers.NewHTTPSource(httpClient, providers.DefaultBreakerConfig())

	// In-memory delivery history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	renderer := render.NewRenderer(cfg.RenderLocale(), render.WithFooter(cfg.FooterText))
	service := notifier.NewService(source, renderer, sender, memStore, notifier.Options{
		FailFast: cfg.FailFast,
	})

	return &app{
		cfg:        cfg,
		recipients: list,
		service:    service,
	}, nil
}

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Run one delivery cycle and exit non-zero on any failure",
		RunE:  runSend,
	}
}

func runSend(cmd *cobra.Command, _ []string) error {
	a, err := setup(nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := a.service.Run(ctx, a.recipients)
	if err != nil {
		return fmt.Errorf("delivery cycle failed (%d/%d sent): %w", summary.Sent, summary.Total, err)
	}
	return nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled delivery cycles and the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup(nil)
	if err != nil {
		return err
	}

	// Scheduler that periodically sends notifications.
	sched := scheduler.New(a.recipients, a.cfg.ScheduleInterval, 0, a.service)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// Basic app configuration
	srv := fiber.New(fiber.Config{
		AppName:               "weather-mailer",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	srv.Use(logger.New())
	srv.Use(recover.New())

	// Basic health endpoint
	srv.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":     "ok",
			"service":    "weather-mailer",
			"recipients": len(a.recipients),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(srv, a.service, a.recipients)

	go func() {
		if err := srv.Listen(":" + a.cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}

func previewCmd() *cobra.Command {
	var email, out string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render one recipient's notification without sending it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Preview never sends, so the SMTP settings are not required.
			a, err := setup(mailer.NewMemorySender())
			if err != nil {
				return err
			}

			r, ok := recipients.Find(a.recipients, email)
			if !ok {
				return fmt.Errorf("recipient %q not found in %s", email, a.cfg.RecipientsFile)
			}

			doc, err := a.service.Prepare(cmd.Context(), r)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.HTML)
				return err
			}
			if err := os.WriteFile(out, []byte(doc.HTML), 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
			log.Printf("INFO: wrote %q (%s) to %s", doc.Subject, doc.BadgeLabel, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "recipient email from the recipients file")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file (- for stdout)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
