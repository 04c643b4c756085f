// Package api exposes the statement transform over HTTP: one upload
// endpoint that runs the pipeline and stores the encoded workbooks, and a
// download endpoint that serves them individually or zipped.
package api

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/kazilabs/mpesa-statement-converter/internal/parser"
	"github.com/kazilabs/mpesa-statement-converter/internal/pipeline"
	"github.com/kazilabs/mpesa-statement-converter/internal/store"
	"github.com/kazilabs/mpesa-statement-converter/internal/writer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Output attachment names, kept from the original tool so downstream
// operators see familiar files.
const (
	headerFilename = "M-Pesa-Header.xlsx"
	linesFilename  = "M-Pesa-Lines.xlsx"
	bundleFilename = "M-Pesa-Statement.zip"
)

// FileLink points a client at one downloadable output.
type FileLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// UploadResponse is the JSON reply from POST /upload.
type UploadResponse struct {
	Success       bool       `json:"success"`
	Error         string     `json:"error,omitempty"`
	Files         []FileLink `json:"files,omitempty"`
	LineCount     int        `json:"lineCount"`
	EndingBalance float64    `json:"endingBalance"`
	FromDate      string     `json:"fromDate,omitempty"`
	ToDate        string     `json:"toDate,omitempty"`
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	Defaults pipeline.Options
	Store    *store.Store
	Log      zerolog.Logger
	Version  string
}

// Register sets up the HTTP routes.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/upload", h.HandleUpload)
	app.Get("/download/:id/:kind", h.HandleDownload)
	app.Get("/api/health", h.HandleHealth)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleUpload accepts a statement workbook, runs the transform and stores
// the two output workbooks for download.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		return writeError(c, fiber.StatusBadRequest, "Only .xlsx workbooks are supported.")
	}

	opts, err := h.requestOptions(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	f, err := fileHeader.Open()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}
	defer f.Close()

	rows, err := parser.ReadRows(f)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Could not read workbook: %v", err))
	}

	result := pipeline.New(opts, h.Log).Run(rows)

	var headerBuf, linesBuf bytes.Buffer
	if err := writer.WriteHeader(&headerBuf, result.Header); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Header workbook generation failed: %v", err))
	}
	if err := writer.WriteLines(&linesBuf, result.Lines); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Lines workbook generation failed: %v", err))
	}

	id := h.Store.Put(store.Result{
		Header: headerBuf.Bytes(),
		Lines:  linesBuf.Bytes(),
	})

	h.Log.Info().
		Str("file", fileHeader.Filename).
		Int("lines", len(result.Lines)).
		Str("result", id).
		Msg("statement converted")

	return c.JSON(UploadResponse{
		Success: true,
		Files: []FileLink{
			{Name: headerFilename, URL: "/download/" + id + "/header"},
			{Name: linesFilename, URL: "/download/" + id + "/lines"},
			{Name: bundleFilename, URL: "/download/" + id + "/bundle"},
		},
		LineCount:     len(result.Lines),
		EndingBalance: result.Header.EndingBalance.InexactFloat64(),
		FromDate:      result.Header.FromDate,
		ToDate:        result.Header.ToDate,
	})
}

// HandleDownload serves a stored result: the header or lines workbook, or
// both zipped.
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	result, err := h.Store.Get(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusNotFound, "File not found. Results expire shortly after upload; re-upload the statement.")
	}

	switch c.Params("kind") {
	case "header":
		return sendAttachment(c, headerFilename, xlsxContentType, result.Header)
	case "lines":
		return sendAttachment(c, linesFilename, xlsxContentType, result.Lines)
	case "bundle":
		data, err := zipBundle(result)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Bundle generation failed.")
		}
		return sendAttachment(c, bundleFilename, "application/zip", data)
	default:
		return writeError(c, fiber.StatusNotFound, "Unknown download kind. Use header, lines or bundle.")
	}
}

// requestOptions layers per-request form overrides on the configured
// defaults. The defaults value itself is never mutated.
func (h *Handler) requestOptions(c *fiber.Ctx) (pipeline.Options, error) {
	opts := h.Defaults

	if v := c.FormValue("emission"); v != "" {
		mode, err := pipeline.ParseLineEmission(v)
		if err != nil {
			return opts, err
		}
		opts.LineEmission = mode
	}
	if v := c.FormValue("dateOrder"); v != "" {
		order, err := pipeline.ParseDateOrder(v)
		if err != nil {
			return opts, err
		}
		opts.DateOrder = order
	}
	if v := c.FormValue("dateRange"); v != "" {
		src, err := pipeline.ParseDateRangeSource(v)
		if err != nil {
			return opts, err
		}
		opts.DateRangeSource = src
	}
	if v := c.FormValue("unparsedDate"); v != "" {
		policy, err := pipeline.ParseUnparsedDatePolicy(v)
		if err != nil {
			return opts, err
		}
		opts.UnparsedDates = policy
	}
	if v := c.FormValue("swapDayMonth"); v != "" {
		opts.SwapDayMonthOutput = v == "true" || v == "1"
	}

	return opts, nil
}

func zipBundle(result store.Result) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range []struct {
		name string
		data []byte
	}{
		{headerFilename, result.Header},
		{linesFilename, result.Lines},
	} {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sendAttachment(c *fiber.Ctx, filename, contentType string, data []byte) error {
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(UploadResponse{
		Success: false,
		Error:   msg,
	})
}
