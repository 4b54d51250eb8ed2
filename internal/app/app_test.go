package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationery/internal/config"
	"stationery/internal/core/apperror"
	"stationery/internal/domain/reports"
	"stationery/internal/domain/views"
	"stationery/internal/infrastructure/export"
)

func testConfig(driver, dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Driver = driver
	cfg.Storage.Dir = dir
	cfg.Catalog.Items = []string{"Pen", "Card"}
	return cfg
}

func TestNew_FileDriverPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	a, err := New(ctx, testConfig(config.DriverFile, dir), nil)
	require.NoError(t, err)

	_, err = a.Service.AddReport(ctx, reports.Draft{
		RequesterName: "Ann",
		Campus:        "Main Campus",
		ImportDate:    "2024-05-30",
		Items:         reports.Items{"Pen": 1},
	})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	reopened, err := New(ctx, testConfig(config.DriverFile, dir), nil)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Len(t, reopened.Service.Reports(), 1)
	assert.ElementsMatch(t, []string{"Pen", "Card"}, reopened.Service.Catalog().Items())
	assert.Contains(t, reopened.HealthChecks(), "storage")
}

func TestNew_PDFImportDisabledWithoutKey(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(config.DriverMemory, ""), nil)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Service.ImportPDF(ctx, []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeImportFailed))
}

func TestNew_ExporterRendersDocuments(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(config.DriverMemory, ""), nil)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Service.AddReport(ctx, reports.Draft{
		RequesterName: "Ann",
		Campus:        "Main Campus",
		ImportDate:    "2024-05-30",
		Items:         reports.Items{"Card": 2},
	})
	require.NoError(t, err)

	st := a.Service.State()
	for _, format := range []export.Format{export.FormatPDF, export.FormatXLSX} {
		file, err := a.Exporter.Export(ctx, format, export.Snapshot{
			Reports: st.Reports,
			Stock:   st.Stock,
			Catalog: a.Service.Catalog(),
			Today:   a.Service.Today(),
		}, views.Filter{})
		require.NoError(t, err, format)
		assert.NotEmpty(t, file.Data, format)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), testConfig("cassandra", ""), nil)
	assert.Error(t, err)
}
