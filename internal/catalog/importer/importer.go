package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/jdeweedata/circletel-sub013/internal/catalog/domain"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// RowError records a spreadsheet row that could not be imported.
type RowError struct {
	Row int
	Err error
}

// Result is the outcome of parsing one workbook sheet.
type Result struct {
	Products []*catalogdomain.Product
	Skipped  []RowError
}

// ParseFile opens the workbook at path and parses the named sheet. An empty
// sheet name selects the first sheet.
func ParseFile(path string, sheet string, genID *snowflake.Node, now time.Time) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "catalog: open workbook")
	}
	defer f.Close()
	return Parse(f, sheet, genID, now)
}

// Parse reads products from the sheet. The first row is the header;
// unrecognized columns are carried into product metadata. Rows missing a
// package code, name or monthly price are skipped and reported, never
// fatal: a partial import is still an import.
func Parse(f *excelize.File, sheet string, genID *snowflake.Node, now time.Time) (*Result, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("catalog: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: read sheet %q", sheet)
	}
	if len(rows) < 2 {
		return nil, errors.Errorf("catalog: sheet %q has no data rows", sheet)
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = normalizeHeader(cell)
	}

	result := &Result{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		product, err := parseRow(header, row, genID, now)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Err: err})
			continue
		}
		if product == nil {
			// Blank row.
			continue
		}
		result.Products = append(result.Products, product)
	}
	return result, nil
}

func parseRow(header []string, row []string, genID *snowflake.Node, now time.Time) (*catalogdomain.Product, error) {
	blank := true
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, nil
	}

	product := &catalogdomain.Product{
		ID:        genID.Generate(),
		Currency:  "ZAR",
		Active:    true,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	priceSet := false

	for i, name := range header {
		if i >= len(row) {
			break
		}
		value := strings.TrimSpace(row[i])
		if value == "" {
			continue
		}

		switch name {
		case "package_code", "code", "sku":
			product.PackageCode = value
		case "name", "package_name", "product_name":
			product.Name = value
		case "category", "product_category":
			product.Category = value
		case "download_mbps", "download", "download_speed":
			mbps, err := parseSpeed(value)
			if err != nil {
				return nil, errors.Wrapf(err, "column %s", name)
			}
			product.DownloadMbps = mbps
		case "upload_mbps", "upload", "upload_speed":
			mbps, err := parseSpeed(value)
			if err != nil {
				return nil, errors.Wrapf(err, "column %s", name)
			}
			product.UploadMbps = mbps
		case "monthly_price", "price", "monthly", "price_zar":
			cents, err := parseAmountCents(value)
			if err != nil {
				return nil, errors.Wrapf(err, "column %s", name)
			}
			product.MonthlyPrice = cents
			priceSet = true
		case "setup_fee", "setup", "installation_fee":
			cents, err := parseAmountCents(value)
			if err != nil {
				return nil, errors.Wrapf(err, "column %s", name)
			}
			product.SetupFee = cents
		case "currency":
			product.Currency = strings.ToUpper(value)
		case "provider", "network", "network_provider":
			product.Provider = value
		case "active", "status", "enabled":
			product.Active = parseActive(value)
		default:
			product.Metadata[name] = value
		}
	}

	if product.PackageCode == "" {
		return nil, errors.New("missing package code")
	}
	if product.Name == "" {
		return nil, errors.New("missing name")
	}
	if !priceSet {
		return nil, errors.New("missing monthly price")
	}
	return product, nil
}

func normalizeHeader(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	cell = strings.ReplaceAll(cell, " ", "_")
	cell = strings.ReplaceAll(cell, "-", "_")
	return strings.Trim(cell, "_")
}

// parseAmountCents reads a rand amount ("499", "R 499.00", "1,299.50") and
// returns cents.
func parseAmountCents(value string) (int64, error) {
	cleaned := strings.NewReplacer("R", "", "r", "", " ", "", ",", "").Replace(value)
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q", value)
	}
	if amount < 0 {
		return 0, fmt.Errorf("negative amount %q", value)
	}
	return int64(math.Round(amount * 100)), nil
}

// parseSpeed reads a line speed ("100", "100Mbps", "100 mbps") in Mbps.
func parseSpeed(value string) (int64, error) {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	cleaned = strings.TrimSuffix(cleaned, "mbps")
	cleaned = strings.TrimSpace(cleaned)
	speed, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable speed %q", value)
	}
	return speed, nil
}

func parseActive(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "no", "0", "inactive", "disabled", "discontinued":
		return false
	}
	return true
}
