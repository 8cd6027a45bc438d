// Package importer loads products in bulk from spreadsheet files. Each row
// is validated independently so one bad row never aborts the batch.
package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mcharvet/boutik/internal/apperr"
	"github.com/mcharvet/boutik/internal/models"
)

type ProductStore interface {
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
}

type CategoryStore interface {
	FindBySlugOrName(ctx context.Context, key string) (*models.Category, error)
}

// RowError reports why a single spreadsheet row was rejected
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportedProduct summarizes one successfully created product
type ImportedProduct struct {
	Name  string  `json:"name"`
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
}

type Result struct {
	Total    int               `json:"total"`
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Errors   []RowError        `json:"errors"`
	Products []ImportedProduct `json:"products"`
}

type Importer struct {
	products   ProductStore
	categories CategoryStore
	logger     *zap.Logger
}

func New(products ProductStore, categories CategoryStore, logger *zap.Logger) *Importer {
	return &Importer{products: products, categories: categories, logger: logger}
}

var requiredColumns = []string{"name", "price", "category", "sku"}

// ImportXLSX reads the first sheet of an .xlsx file and imports its rows
func (im *Importer) ImportXLSX(ctx context.Context, r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "could not read spreadsheet", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "could not read spreadsheet rows", err)
	}
	return im.ImportRows(ctx, rows)
}

// ImportRows imports a header row plus data rows
func (im *Importer) ImportRows(ctx context.Context, rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, apperr.New(apperr.KindBadRequest, "spreadsheet is empty")
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: []RowError{}, Products: []ImportedProduct{}}
	seenSKUs := map[string]bool{}

	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNum := i + 2 // 1-based, after the header
		result.Total++

		product, rowErr := im.parseRow(ctx, columns, row, seenSKUs)
		if rowErr != "" {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Error: rowErr})
			continue
		}

		if err := im.products.Create(ctx, product); err != nil {
			im.logger.Error("bulk import row failed to persist",
				zap.Int("row", rowNum), zap.String("sku", product.SKU), zap.Error(err))
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Error: "failed to save product"})
			continue
		}

		seenSKUs[product.SKU] = true
		result.Imported++
		result.Products = append(result.Products, ImportedProduct{
			Name: product.Name, SKU: product.SKU, Price: product.Price,
		})
	}
	return result, nil
}

// parseRow validates one data row, returning the product or a row error
// message
func (im *Importer) parseRow(ctx context.Context, columns map[string]int, row []string, seenSKUs map[string]bool) (*models.Product, string) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var missing []string
	for _, col := range requiredColumns {
		if cell(col) == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, "missing required fields: " + strings.Join(missing, ", ")
	}

	price, err := strconv.ParseFloat(cell("price"), 64)
	if err != nil || price < 0 {
		return nil, fmt.Sprintf("invalid price %q", cell("price"))
	}

	sku := cell("sku")
	if seenSKUs[sku] {
		return nil, fmt.Sprintf("duplicate SKU %q in file", sku)
	}
	if existing, err := im.products.FindBySKU(ctx, sku); err == nil && existing != nil {
		return nil, fmt.Sprintf("SKU %q already exists", sku)
	} else if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		return nil, "failed to check SKU"
	}

	category, err := im.categories.FindBySlugOrName(ctx, cell("category"))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, fmt.Sprintf("unknown category %q", cell("category"))
		}
		return nil, "failed to look up category"
	}

	stock := 0
	if raw := cell("stock"); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return nil, fmt.Sprintf("invalid stock %q", raw)
		}
	}

	return &models.Product{
		Name:        cell("name"),
		Description: cell("description"),
		Price:       price,
		Stock:       stock,
		SKU:         sku,
		CategoryID:  category.ID,
		Status:      models.ProductActive,
	}, ""
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// mapColumns locates the required columns in the header row,
// case-insensitively
func mapColumns(header []string) (map[string]int, error) {
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.New(apperr.KindBadRequest,
			"spreadsheet is missing required columns: "+strings.Join(missing, ", "))
	}
	return columns, nil
}
