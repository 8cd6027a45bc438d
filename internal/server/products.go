package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcharvet/boutik/internal/apperr"
	"github.com/mcharvet/boutik/internal/models"
	"github.com/mcharvet/boutik/internal/normalize"
	"github.com/mcharvet/boutik/internal/store"
)

type productRequest struct {
	Name         string            `json:"name" binding:"required"`
	Description  string            `json:"description"`
	Price        float64           `json:"price" binding:"gte=0"`
	Stock        int               `json:"stock" binding:"gte=0"`
	SKU          string            `json:"sku" binding:"required"`
	CategoryID   string            `json:"categoryId"`
	Images       []string          `json:"images"`
	Rating       float64           `json:"rating"`
	IsBestSeller bool              `json:"isBestSeller"`
	IsNew        bool              `json:"isNew"`
	Status       string            `json:"status"`
	Attributes   map[string]string `json:"attributes"`
}

func (r *productRequest) toModel() (*models.Product, error) {
	p := &models.Product{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Stock:        r.Stock,
		SKU:          r.SKU,
		Images:       r.Images,
		Rating:       r.Rating,
		IsBestSeller: r.IsBestSeller,
		IsNew:        r.IsNew,
		Status:       r.Status,
		Attributes:   r.Attributes,
	}
	if r.CategoryID != "" {
		id, err := primitive.ObjectIDFromHex(r.CategoryID)
		if err != nil {
			return nil, apperr.New(apperr.KindBadRequest, "invalid categoryId")
		}
		p.CategoryID = id
	}
	return p, nil
}

func (s *Server) listProducts(c *gin.Context) {
	filter := store.ProductFilter{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}
	if raw := c.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if key := c.Query("category"); key != "" {
		category, err := s.deps.Categories.FindBySlugOrName(c.Request.Context(), key)
		if err != nil {
			s.fail(c, err)
			return
		}
		filter.CategoryID = &category.ID
	}

	list, total, err := s.deps.Products.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	respond(c, http.StatusOK, gin.H{
		"products": list,
		"total":    total,
		"pages":    totalPages,
	})
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	product, err := s.deps.Products.FindByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, normalize.Product(product))
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "name and sku are required and price must not be negative")
		return
	}
	product, err := req.toModel()
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.deps.Products.Create(c.Request.Context(), product); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "name and sku are required and price must not be negative")
		return
	}
	product, err := req.toModel()
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.deps.Products.Update(c.Request.Context(), id, product); err != nil {
		s.fail(c, err)
		return
	}
	product.ID = id
	respond(c, http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	if err := s.deps.Products.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": id.Hex()})
}

// importProducts accepts a multipart .xlsx upload and imports it row by row
func (s *Server) importProducts(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		s.badRequest(c, "file is required")
		return
	}
	f, err := file.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	result, err := s.deps.Importer.ImportXLSX(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}
