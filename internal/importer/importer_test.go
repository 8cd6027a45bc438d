package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mcharvet/boutik/internal/apperr"
	"github.com/mcharvet/boutik/internal/models"
)

type fakeProducts struct {
	existingSKUs map[string]bool
	created      []*models.Product
}

func (f *fakeProducts) FindBySKU(_ context.Context, sku string) (*models.Product, error) {
	if f.existingSKUs[sku] {
		return &models.Product{SKU: sku}, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "product not found")
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	f.created = append(f.created, p)
	return nil
}

type fakeCategories struct {
	known map[string]primitive.ObjectID
}

func (f *fakeCategories) FindBySlugOrName(_ context.Context, key string) (*models.Category, error) {
	if id, ok := f.known[key]; ok {
		return &models.Category{ID: id, Name: key}, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "category not found")
}

func testImporter() (*Importer, *fakeProducts, *fakeCategories) {
	products := &fakeProducts{existingSKUs: map[string]bool{"TAKEN-1": true}}
	categories := &fakeCategories{known: map[string]primitive.ObjectID{
		"Lighting": primitive.NewObjectID(),
	}}
	return New(products, categories, zap.NewNop()), products, categories
}

func TestImportRows(t *testing.T) {
	header := []string{"Name", "Price", "Category", "SKU", "Stock", "Description"}

	t.Run("imports valid rows", func(t *testing.T) {
		im, products, _ := testImporter()
		res, err := im.ImportRows(context.Background(), [][]string{
			header,
			{"Desk Lamp", "49.90", "Lighting", "LAMP-1", "12", "LED lamp"},
			{"Floor Lamp", "99", "Lighting", "LAMP-2", "", ""},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, res.Total)
		assert.Equal(t, 2, res.Imported)
		assert.Equal(t, 0, res.Failed)
		require.Len(t, products.created, 2)
		assert.Equal(t, 49.9, products.created[0].Price)
		assert.Equal(t, 12, products.created[0].Stock)
		assert.Equal(t, 0, products.created[1].Stock)
	})

	t.Run("rejects rows independently", func(t *testing.T) {
		im, products, _ := testImporter()
		res, err := im.ImportRows(context.Background(), [][]string{
			header,
			{"", "49.90", "Lighting", "LAMP-1", "", ""},        // missing name
			{"Lamp", "cheap", "Lighting", "LAMP-2", "", ""},    // bad price
			{"Lamp", "10", "Plumbing", "LAMP-3", "", ""},       // unknown category
			{"Lamp", "10", "Lighting", "TAKEN-1", "", ""},      // sku exists in store
			{"Lamp", "10", "Lighting", "LAMP-5", "", ""},       // ok
			{"Lamp Again", "12", "Lighting", "LAMP-5", "", ""}, // duplicate sku in file
		})
		require.NoError(t, err)

		assert.Equal(t, 6, res.Total)
		assert.Equal(t, 1, res.Imported)
		assert.Equal(t, 5, res.Failed)
		require.Len(t, res.Errors, 5)
		assert.Equal(t, 2, res.Errors[0].Row)
		assert.Contains(t, res.Errors[0].Error, "missing required fields: name")
		assert.Contains(t, res.Errors[1].Error, "invalid price")
		assert.Contains(t, res.Errors[2].Error, "unknown category")
		assert.Contains(t, res.Errors[3].Error, "already exists")
		assert.Contains(t, res.Errors[4].Error, "duplicate SKU")
		assert.Len(t, products.created, 1)
	})

	t.Run("rejects files missing required columns", func(t *testing.T) {
		im, _, _ := testImporter()
		_, err := im.ImportRows(context.Background(), [][]string{
			{"Name", "Price"},
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "category, sku")
	})

	t.Run("rejects empty spreadsheets", func(t *testing.T) {
		im, _, _ := testImporter()
		_, err := im.ImportRows(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	})
}
