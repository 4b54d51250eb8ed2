package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stationery/internal/domain/catalog"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
	"stationery/internal/domain/views"
	"stationery/internal/infrastructure/export"
)

func TestRender(t *testing.T) {
	list := []reports.Report{
		{RequesterName: "Ann", Campus: "Main Campus", ImportDate: "2024-03-04", Items: reports.Items{"Pen": 3}, Status: reports.StatusDone},
		{RequesterName: "Ben", Campus: "Main Campus", ImportDate: "2024-03-05", Items: reports.Items{"Tape": 1}},
	}
	doc, err := export.NewDocument(list, ledger.Ledger{"Pen": {Quantity: 4}}, views.Filter{}, catalog.Default(), "2024-06-01")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Reports", "Summary", "Stock"}, f.GetSheetList())

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Done", "Ann", "Main Campus", "2024-03-04", "", "Pen x3", "3"}, rows[1])
	assert.Equal(t, "Process", rows[2][0])

	stock, err := f.GetRows("Stock")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pen", "4", "", "", "0"}, stock[1])
}
