// Package reports provides the stationery request report and the ordered
// report store.
package reports

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"stationery/internal/core/apperror"
	"stationery/internal/domain/catalog"
	"stationery/internal/domain/ledger"
)

// Status is the lifecycle state of a report.
type Status string

const (
	// StatusProcess means the request is logged but nothing left the stock.
	StatusProcess Status = "Process"
	// StatusDone means the items were handed out and consumed from stock.
	StatusDone Status = "Done"
)

// ParseStatus maps any spelling of "done" to StatusDone and everything else
// to StatusProcess.
func ParseStatus(s string) Status {
	if strings.EqualFold(strings.TrimSpace(s), string(StatusDone)) {
		return StatusDone
	}
	return StatusProcess
}

// Items maps item name to requested quantity. Stored maps never hold zero
// or negative quantities.
type Items map[string]int

// Normalize returns a copy without blank names and non-positive quantities.
func (i Items) Normalize() Items {
	out := make(Items, len(i))
	for name, qty := range i {
		name = strings.TrimSpace(name)
		if name == "" || qty <= 0 {
			continue
		}
		out[name] += qty
	}
	return out
}

// Total returns the sum of all quantities.
func (i Items) Total() int {
	total := 0
	for _, qty := range i {
		total += qty
	}
	return total
}

// Names returns the item names sorted alphabetically.
func (i Items) Names() []string {
	names := make([]string, 0, len(i))
	for name := range i {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report is a committed stationery request.
type Report struct {
	ID            string `json:"id"`
	RequesterName string `json:"requesterName"`
	Campus        string `json:"campus"`
	ImportDate    string `json:"importDate"`
	ExportDate    string `json:"exportDate"`
	Items         Items  `json:"items"`
	Status        Status `json:"status"`
}

// IsDone reports whether r has consumed its items from stock.
func (r Report) IsDone() bool {
	return r.Status == StatusDone
}

// Side returns the ledger-relevant view of r.
func (r Report) Side() ledger.Side {
	return ledger.Side{Done: r.IsDone(), Items: r.Items}
}

// Draft is a report that has not been committed yet. It is also the input
// shape of create and update operations.
type Draft struct {
	RequesterName string `json:"requesterName" validate:"required"`
	Campus        string `json:"campus" validate:"required"`
	ImportDate    string `json:"importDate" validate:"required,datetime=2006-01-02"`
	ExportDate    string `json:"exportDate" validate:"omitempty,datetime=2006-01-02"`
	Items         Items  `json:"items" validate:"min=1,dive,gt=0"`
	Status        Status `json:"status" validate:"omitempty,oneof=Process Done"`
}

// Normalized trims text fields, drops empty item lines and defaults the
// status to Process.
func (d Draft) Normalized() Draft {
	d.RequesterName = strings.TrimSpace(d.RequesterName)
	d.Campus = strings.TrimSpace(d.Campus)
	d.ImportDate = strings.TrimSpace(d.ImportDate)
	d.ExportDate = strings.TrimSpace(d.ExportDate)
	d.Items = d.Items.Normalize()
	if d.Status != StatusDone {
		d.Status = StatusProcess
	}
	return d
}

// Report commits d under the given identifier.
func (d Draft) Report(id string) Report {
	n := d.Normalized()
	return Report{
		ID:            id,
		RequesterName: n.RequesterName,
		Campus:        n.Campus,
		ImportDate:    n.ImportDate,
		ExportDate:    n.ExportDate,
		Items:         n.Items,
		Status:        n.Status,
	}
}

// DraftOf returns the editable form of r.
func DraftOf(r Report) Draft {
	items := make(Items, len(r.Items))
	for k, v := range r.Items {
		items[k] = v
	}
	return Draft{
		RequesterName: r.RequesterName,
		Campus:        r.Campus,
		ImportDate:    r.ImportDate,
		ExportDate:    r.ExportDate,
		Items:         items,
		Status:        r.Status,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks a normalized draft against the required fields and the
// catalog. It returns a VALIDATION_ERROR listing the offending fields.
func (d Draft) Validate(ctx context.Context, cat *catalog.Catalog) error {
	if err := d.validateFields(ctx); err != nil {
		return err
	}
	return d.checkCatalog(cat, true, d.Items.Names())
}

// ValidateChange validates an edit of before. Only a changed campus and
// items not already on before are checked against the catalog, so
// imported reports with off-catalog names stay editable.
func (d Draft) ValidateChange(ctx context.Context, cat *catalog.Catalog, before Report) error {
	if err := d.validateFields(ctx); err != nil {
		return err
	}
	var added []string
	for _, name := range d.Items.Names() {
		if _, ok := before.Items[name]; !ok {
			added = append(added, name)
		}
	}
	return d.checkCatalog(cat, d.Campus != before.Campus, added)
}

func (d Draft) validateFields(ctx context.Context) error {
	err := getValidator().StructCtx(ctx, d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewInternal(err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldName(fe))
	}
	return apperror.NewValidation("missing or invalid report fields: " + strings.Join(fields, ", ")).
		WithDetail("fields", fields)
}

func (d Draft) checkCatalog(cat *catalog.Catalog, campus bool, items []string) error {
	if cat == nil {
		return nil
	}
	if campus && !cat.HasCampus(d.Campus) {
		return apperror.NewValidation("unknown campus").
			WithDetail("field", "campus").
			WithDetail("campus", d.Campus)
	}
	for _, name := range items {
		if !cat.HasItem(name) {
			return apperror.NewValidation("unknown item").
				WithDetail("field", "items").
				WithDetail("item", name)
		}
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	// Items map keys come back as items[Pen].
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}
