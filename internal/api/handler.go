// Package api exposes the ledger pipeline over HTTP.
package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/logger"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Multipart field names accepted by /api/ledger.
const (
	FieldDebit       = "debit"
	FieldCardDetails = "card_details"
	FieldCardFuture  = "card_future"
	FieldWindowStart = "window_start"
	FieldWindowEnd   = "window_end"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handler holds the HTTP handlers for the API. Options are the defaults a
// request may narrow with its own window.
type Handler struct {
	Options ledger.Options
	Log     zerolog.Logger
	Version string
}

// NewApp creates the fiber app with the API routes registered.
func NewApp(h *Handler, bodyLimitMB int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "statement-ledger",
		BodyLimit: bodyLimitMB << 20,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST, GET, OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(func(c *fiber.Ctx) error {
		reqLog := h.Log.With().Str("method", c.Method()).Str("path", c.Path()).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext(), reqLog))
		return c.Next()
	})
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/ledger", h.HandleLedger)
}

// HandleHealth reports liveness and the running version.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleLedger builds a report from uploaded statements.
func (h *Handler) HandleLedger(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
	}

	opts, err := h.requestOptions(form)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	var in ledger.Inputs
	for _, fh := range form.File[FieldDebit] {
		st, err := readStatement(fh)
		if err != nil {
			return uploadError(c, fh.Filename, err)
		}
		in.Debit = append(in.Debit, st)
	}
	if in.CardDetails, err = optionalStatement(form, FieldCardDetails); err != nil {
		return uploadError(c, FieldCardDetails, err)
	}
	if in.CardFuture, err = optionalStatement(form, FieldCardFuture); err != nil {
		return uploadError(c, FieldCardFuture, err)
	}

	log := logger.FromContext(c.UserContext())
	report, err := ledger.NewPipeline(opts, log).Run(in)
	switch {
	case errors.Is(err, models.ErrNoInputs):
		return writeError(c, fiber.StatusBadRequest,
			fmt.Sprintf("%v: upload at least one of %q, %q or %q", err, FieldDebit, FieldCardDetails, FieldCardFuture))
	case errors.Is(err, models.ErrInvalidConfig):
		return writeError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("ledger run failed")
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(report)
}

// requestOptions applies the optional window override from the form.
func (h *Handler) requestOptions(form *multipart.Form) (ledger.Options, error) {
	opts := h.Options
	if v := formValue(form, FieldWindowStart); v != "" {
		d, err := config.ParseDate(v)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", FieldWindowStart, err)
		}
		opts.Window.Start = d
	}
	if v := formValue(form, FieldWindowEnd); v != "" {
		d, err := config.ParseDate(v)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", FieldWindowEnd, err)
		}
		opts.Window.End = d
	}
	return opts, opts.Validate()
}

func optionalStatement(form *multipart.Form, field string) (*ledger.Statement, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	st, err := readStatement(files[0])
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func readStatement(fh *multipart.FileHeader) (ledger.Statement, error) {
	f, err := fh.Open()
	if err != nil {
		return ledger.Statement{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ledger.Statement{}, err
	}
	lines, err := extractor.LoadBytes(fh.Filename, data)
	if err != nil {
		return ledger.Statement{}, err
	}
	return ledger.Statement{Name: fh.Filename, Lines: lines}, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func uploadError(c *fiber.Ctx, name string, err error) error {
	if errors.Is(err, extractor.ErrUnreadablePDF) {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed for %s: %v", name, err))
	}
	return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", name, err))
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   msg,
	})
}
