package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationery/internal/core/apperror"
	"stationery/internal/domain/catalog"
)

func validDraft() Draft {
	return Draft{
		RequesterName: " Alice ",
		Campus:        "Main Campus",
		ImportDate:    "2024-03-04",
		Items:         Items{"Pen": 3, "Card": 0, "Tape": -1},
	}
}

func TestDraft_Normalized(t *testing.T) {
	d := validDraft().Normalized()

	assert.Equal(t, "Alice", d.RequesterName)
	assert.Equal(t, Items{"Pen": 3}, d.Items)
	assert.Equal(t, StatusProcess, d.Status)
}

func TestDraft_Validate(t *testing.T) {
	cat := catalog.Default()
	ctx := context.Background()

	require.NoError(t, validDraft().Normalized().Validate(ctx, cat))

	tests := []struct {
		name  string
		edit  func(d *Draft)
		field string
	}{
		{"missing requester", func(d *Draft) { d.RequesterName = "" }, "requesterName"},
		{"missing campus", func(d *Draft) { d.Campus = "" }, "campus"},
		{"bad import date", func(d *Draft) { d.ImportDate = "04/03/2024" }, "importDate"},
		{"bad export date", func(d *Draft) { d.ExportDate = "soon" }, "exportDate"},
		{"no items", func(d *Draft) { d.Items = Items{"Pen": 0} }, "items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.edit(&d)

			err := d.Normalized().Validate(ctx, cat)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Contains(t, appErr.Details["fields"], tt.field)
		})
	}
}

func TestDraft_ValidateAgainstCatalog(t *testing.T) {
	cat := catalog.Default()
	ctx := context.Background()

	d := validDraft()
	d.Campus = "Moon Campus"
	err := d.Normalized().Validate(ctx, cat)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	d = validDraft()
	d.Items = Items{"Laser": 1}
	err = d.Normalized().Validate(ctx, cat)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusDone, ParseStatus("done"))
	assert.Equal(t, StatusDone, ParseStatus(" Done "))
	assert.Equal(t, StatusProcess, ParseStatus("Shipped"))
	assert.Equal(t, StatusProcess, ParseStatus(""))
}

func TestStore(t *testing.T) {
	var s Store
	a := Report{ID: "a", Items: Items{"Pen": 1}}
	b := Report{ID: "b", Items: Items{"Card": 2}, Status: StatusDone}

	s, err := s.Insert(a)
	require.NoError(t, err)
	s, err = s.Insert(b)
	require.NoError(t, err)

	_, err = s.Insert(a)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

	updated := a
	updated.RequesterName = "Bob"
	next, err := s.Replace(updated)
	require.NoError(t, err)
	assert.Equal(t, "Bob", next[0].RequesterName)
	assert.Empty(t, s[0].RequesterName, "receiver must not change")

	next, removed, err := next.Remove("b")
	require.NoError(t, err)
	assert.Equal(t, b, removed)
	assert.Len(t, next, 1)
	assert.Len(t, s, 2)

	_, err = next.Get("b")
	assert.True(t, apperror.IsNotFound(err))

	assert.Equal(t, Store{b}, s.Done())
}
