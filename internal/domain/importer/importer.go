// Package importer turns an uploaded PDF (or a JSON backup) into a complete
// replacement report set and stock ledger.
//
// The pipeline runs seven steps; each one is a distinct failure point and
// the resulting IMPORT_FAILED error names it in details.step. Nothing is
// returned unless every step succeeds, so callers can replace their state
// wholesale on success and keep it untouched on failure.
package importer

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stationery/internal/core/apperror"
	"stationery/internal/core/types"
	"stationery/pkg/logger"
)

var tracer = otel.Tracer("stationery/importer")

// Step names reported in details.step of IMPORT_FAILED errors.
const (
	StepExtract   = "extract_text"
	StepStructure = "structure"
	StepUnwrap    = "unwrap"
	StepParse     = "parse_json"
	StepValidate  = "validate_shape"
	StepReports   = "coerce_reports"
	StepStock     = "coerce_stock"
)

// TextSource extracts the plain text of a PDF document.
type TextSource interface {
	Text(ctx context.Context, pdf []byte) (string, error)
}

// Structurer turns free document text into the two-key JSON payload
// {"reports": [...], "stock": {...}}. The raw response may be wrapped in a
// code fence.
type Structurer interface {
	Structure(ctx context.Context, text string) (string, error)
}

// Pipeline runs PDF and JSON imports.
type Pipeline struct {
	text       TextSource
	structurer Structurer
	clock      types.Clock
	log        *logger.Logger
}

// NewPipeline creates a pipeline. text and structurer may be nil when only
// JSON imports are used.
func NewPipeline(text TextSource, structurer Structurer, clock types.Clock, log *logger.Logger) *Pipeline {
	if clock == nil {
		clock = types.SystemClock
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		text:       text,
		structurer: structurer,
		clock:      clock,
		log:        log.WithComponent("importer"),
	}
}

// Run executes all seven steps over a PDF document.
func (p *Pipeline) Run(ctx context.Context, pdf []byte) (Payload, error) {
	ctx, span := tracer.Start(ctx, "import.pdf",
		trace.WithAttributes(attribute.Int("import.pdf_bytes", len(pdf))))
	defer span.End()

	if p.text == nil || p.structurer == nil {
		return Payload{}, fail(span, StepStructure, "PDF import is not configured", nil)
	}

	text, err := p.text.Text(ctx, pdf)
	if err != nil {
		return Payload{}, fail(span, StepExtract, "could not read the PDF", err)
	}
	if strings.TrimSpace(text) == "" {
		return Payload{}, fail(span, StepExtract, "the PDF contains no extractable text", nil)
	}
	p.log.WithContext(ctx).Debugw("pdf text extracted", "chars", len(text))

	raw, err := p.structurer.Structure(ctx, text)
	if err != nil {
		return Payload{}, fail(span, StepStructure, "the extraction service failed", err)
	}

	payload, err := p.parse(ctx, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import failed")
		return Payload{}, err
	}
	span.SetAttributes(
		attribute.Int("import.reports", len(payload.Reports)),
		attribute.Int("import.stock_items", len(payload.Stock)),
	)
	return payload, nil
}

// Parse runs steps 3 to 7 over raw JSON, optionally fenced. JSON backup
// imports enter the pipeline here.
func (p *Pipeline) Parse(ctx context.Context, raw string) (Payload, error) {
	ctx, span := tracer.Start(ctx, "import.json")
	defer span.End()

	payload, err := p.parse(ctx, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import failed")
	}
	return payload, err
}

func (p *Pipeline) parse(ctx context.Context, raw string) (Payload, error) {
	body := StripFences(raw)
	if body == "" {
		return Payload{}, apperror.NewImportFailed(StepUnwrap, "the extraction service returned nothing")
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return Payload{}, apperror.NewImportFailed(StepParse, "the extracted data is not valid JSON").WithCause(err)
	}

	rawReports, rawStock, err := splitDocument(doc)
	if err != nil {
		return Payload{}, err
	}

	now := p.clock()
	today := types.FormatDate(now)

	list, dropped := coerceReports(rawReports, now, today)
	stock, skipped := coerceStock(rawStock)

	p.log.WithContext(ctx).Infow("import parsed",
		"reports", len(list),
		"reports_dropped", dropped,
		"stock_items", len(stock),
		"stock_skipped", skipped,
	)
	return Payload{Reports: list, Stock: stock}, nil
}

func fail(span trace.Span, step, msg string, cause error) error {
	err := apperror.NewImportFailed(step, msg)
	if cause != nil {
		err = err.WithCause(fmt.Errorf("%s: %w", step, cause))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, step)
	return err
}
