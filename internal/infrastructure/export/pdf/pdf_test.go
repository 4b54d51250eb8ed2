package pdf

import (
	"bytes"
	"fmt"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationery/internal/domain/catalog"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
	"stationery/internal/domain/views"
	"stationery/internal/infrastructure/export"
)

func TestRender(t *testing.T) {
	var list []reports.Report
	for i := 0; i < 120; i++ {
		status := reports.StatusProcess
		if i%3 == 0 {
			status = reports.StatusDone
		}
		list = append(list, reports.Report{
			RequesterName: fmt.Sprintf("Requester %d", i),
			Campus:        "North Campus",
			ImportDate:    "2024-03-04",
			Items:         reports.Items{"Pen": i + 1, "A4 Paper": 2, "Highlighter": 1, "Paper Clip": 10},
			Status:        status,
		})
	}
	doc, err := export.NewDocument(list, ledger.New(catalog.DefaultItems), views.Filter{}, catalog.Default(), "2024-06-01")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	pages := bytes.Count(buf.Bytes(), []byte("/Type /Page")) - bytes.Count(buf.Bytes(), []byte("/Type /Pages"))
	assert.Greater(t, pages, 1, "long tables span pages")
}

// utf16BE is how UTF-8 fonts encode text in a content stream.
func utf16BE(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func TestRender_KeepsNonLatinText(t *testing.T) {
	names := []string{"Đặng Thị Hoa", "Zażółć Gęślą", "សុខ ដារ៉ា"}
	var list []reports.Report
	for _, name := range names {
		list = append(list, reports.Report{
			RequesterName: name,
			Campus:        "Main Campus",
			ImportDate:    "2024-03-04",
			Items:         reports.Items{"Pen": 1},
			Status:        reports.StatusProcess,
		})
	}
	doc, err := export.NewDocument(list, ledger.New(catalog.DefaultItems), views.Filter{}, catalog.Default(), "2024-06-01")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render(&buf, doc, false))
	for _, name := range names {
		assert.True(t, bytes.Contains(buf.Bytes(), utf16BE(name)), "missing %q", name)
	}
}

func TestBMP(t *testing.T) {
	assert.Equal(t, "Đặng", bmp("Đặng"))
	assert.Equal(t, "Ann \uFFFD", bmp("Ann 😀"))
}
