package importer

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newWorkbook(t *testing.T, header []string, rows [][]any) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, name))
	}
	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
	return f
}

func TestParseWorkbook(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := newWorkbook(t,
		[]string{"Package Code", "Name", "Category", "Download Mbps", "Upload Mbps", "Monthly Price", "Setup Fee", "Provider", "Active"},
		[][]any{
			{"FTTH-100", "HomeConnect 100", "fibre", "100", "50", "R 799.00", "0", "Vumatel", "yes"},
			{"LTE-20", "AirConnect 20", "lte", "20 Mbps", "10", "399", "499.50", "MTN", "discontinued"},
		},
	)

	result, err := Parse(f, "", node, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	assert.Empty(t, result.Skipped)

	fibre := result.Products[0]
	assert.Equal(t, "FTTH-100", fibre.PackageCode)
	assert.Equal(t, "HomeConnect 100", fibre.Name)
	assert.Equal(t, "fibre", fibre.Category)
	assert.Equal(t, int64(100), fibre.DownloadMbps)
	assert.Equal(t, int64(50), fibre.UploadMbps)
	assert.Equal(t, int64(79900), fibre.MonthlyPrice)
	assert.Equal(t, "ZAR", fibre.Currency)
	assert.True(t, fibre.Active)

	lte := result.Products[1]
	assert.Equal(t, int64(20), lte.DownloadMbps)
	assert.Equal(t, int64(39900), lte.MonthlyPrice)
	assert.Equal(t, int64(49950), lte.SetupFee)
	assert.False(t, lte.Active)
}

func TestParseSkipsBrokenRowsWithoutFailing(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := newWorkbook(t,
		[]string{"package_code", "name", "monthly_price"},
		[][]any{
			{"FTTH-25", "HomeConnect 25", "499"},
			{"", "No Code", "299"},
			{"BAD-PRICE", "Bad Price", "free"},
		},
	)

	result, err := Parse(f, "", node, time.Now())
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "FTTH-25", result.Products[0].PackageCode)

	require.Len(t, result.Skipped, 2)
	assert.Equal(t, 3, result.Skipped[0].Row)
	assert.Equal(t, 4, result.Skipped[1].Row)
}

func TestParseUnknownColumnsLandInMetadata(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := newWorkbook(t,
		[]string{"package_code", "name", "monthly_price", "Coverage Zone"},
		[][]any{{"FTTH-50", "HomeConnect 50", "599", "Gauteng"}},
	)

	result, err := Parse(f, "", node, time.Now())
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Gauteng", result.Products[0].Metadata["coverage_zone"])
}

func TestParseAmountCents(t *testing.T) {
	cases := map[string]int64{
		"499":      49900,
		"R 799.00": 79900,
		"1,299.50": 129950,
		"0":        0,
	}
	for raw, want := range cases {
		got, err := parseAmountCents(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := parseAmountCents("-10")
	assert.Error(t, err)
	_, err = parseAmountCents("free")
	assert.Error(t, err)
}
