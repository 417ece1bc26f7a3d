package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-mailer/internal/notifier"
	"github.com/i474232898/weather-mailer/internal/recipients"
	"github.com/i474232898/weather-mailer/internal/store"
	"github.com/i474232898/weather-mailer/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *notifier.Service, list []weather.Recipient) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	// Render a recipient's notification without sending it.
	v1.Get("/preview", func(c *fiber.Ctx) error {
		q, err := parseRecipientQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		r, ok := recipients.Find(list, q.Email)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown recipient")
		}

		doc, err := service.Prepare(c.UserContext(), r)
		if err != nil {
			if errors.Is(err, weather.ErrUpstreamFetch) {
				return fiber.NewError(fiber.StatusBadGateway, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render notification")
		}

		c.Set("X-Notification-Subject", doc.Subject)
		c.Type("html", "utf-8")
		return c.SendString(doc.HTML)
	})

	v1.Post("/run", func(c *fiber.Ctx) error {
		summary, err := service.Run(context.WithoutCancel(c.UserContext()), list)
		switch {
		case errors.Is(err, notifier.ErrBusy):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, weather.ErrNoRecipients):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}

		status := fiber.StatusOK
		if err != nil {
			status = fiber.StatusMultiStatus
		}
		return c.Status(status).JSON(summary)
	})

	v1.Get("/deliveries/latest", func(c *fiber.Ctx) error {
		q, err := parseRecipientQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		record, err := service.GetLatest(q.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no deliveries for requested recipient")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch deliveries")
		}

		return c.JSON(record)
	})

	v1.Get("/deliveries/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.GetRange(req.Recipient.Email, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no deliveries for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch deliveries")
		}

		return c.JSON(fiber.Map{
			"email":      req.Recipient.Email,
			"from":       req.From,
			"to":         req.To,
			"deliveries": records,
		})
	})
}

// recipientQuery identifies a recipient by email.
type recipientQuery struct {
	Email string `validate:"required,email"`
}

func parseRecipientQuery(c *fiber.Ctx) (recipientQuery, error) {
	var q recipientQuery

	q.Email = c.Query("email")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Recipient recipientQuery
	From      time.Time `validate:"required"`
	To        time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	q, err := parseRecipientQuery(c)
	if err != nil {
		return err
	}
	h.Recipient = q

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
