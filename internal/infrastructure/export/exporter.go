package export

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"stationery/internal/core/apperror"
	"stationery/internal/domain/catalog"
	"stationery/internal/domain/importer"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
	"stationery/internal/domain/views"
	"stationery/pkg/logger"
)

// Format is an export file type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Renderer writes a document in one format.
type Renderer func(w io.Writer, doc Document) error

// Archiver keeps a copy of every generated file.
type Archiver interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Snapshot is the state an export reads.
type Snapshot struct {
	Reports reports.Store
	Stock   ledger.Ledger
	Catalog *catalog.Catalog
	Today   string
}

// File is a generated export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	// ArchiveKey is set when the file was also archived.
	ArchiveKey string
}

// Exporter filters a snapshot and renders it. JSON is built in; document
// formats need a registered Renderer.
type Exporter struct {
	renderers map[Format]Renderer
	archive   Archiver
	log       *logger.Logger
}

// NewExporter creates an exporter. archive may be nil.
func NewExporter(renderers map[Format]Renderer, archive Archiver, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Nop()
	}
	return &Exporter{
		renderers: renderers,
		archive:   archive,
		log:       log.WithComponent("export"),
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPDF, FormatXLSX, FormatJSON:
		return f, nil
	}
	return "", apperror.NewValidation("unsupported export format").WithDetail("format", s)
}

// Export renders the reports matching f. An archive failure is logged and
// does not fail the export.
func (e *Exporter) Export(ctx context.Context, format Format, snap Snapshot, f views.Filter) (File, error) {
	filtered, err := views.Apply(snap.Reports, f, snap.Catalog)
	if err != nil {
		return File{}, err
	}

	var buf bytes.Buffer
	if format == FormatJSON {
		if len(filtered) == 0 {
			return File{}, apperror.NewNoData("No reports match the current filters")
		}
		data, err := importer.Encode(filtered, snap.Stock)
		if err != nil {
			return File{}, apperror.NewInternal(fmt.Errorf("encode backup: %w", err))
		}
		buf.Write(data)
	} else {
		render, ok := e.renderers[format]
		if !ok {
			return File{}, apperror.NewValidation("unsupported export format").WithDetail("format", string(format))
		}
		doc, err := NewDocument(filtered, snap.Stock, f, snap.Catalog, snap.Today)
		if err != nil {
			return File{}, err
		}
		if err := render(&buf, doc); err != nil {
			return File{}, apperror.NewInternal(fmt.Errorf("render %s: %w", format, err))
		}
	}

	file := File{
		Name:        views.FileName(f, string(format)),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}

	log := e.log.WithContext(ctx)
	if e.archive != nil {
		key, err := e.archive.Put(ctx, file.Name, file.ContentType, file.Data)
		if err != nil {
			log.Warnw("archive export failed", "file", file.Name, "error", err)
		} else {
			file.ArchiveKey = key
		}
	}

	log.Infow("export generated",
		"format", format,
		"file", file.Name,
		"reports", len(filtered),
		"bytes", len(file.Data),
	)
	return file, nil
}
