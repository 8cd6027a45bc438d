package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcharvet/boutik/internal/models"
	"github.com/mcharvet/boutik/internal/normalize"
)

type categoryRequest struct {
	Name        string                     `json:"name" binding:"required"`
	Slug        string                     `json:"slug" binding:"required"`
	Description string                     `json:"description"`
	Attributes  []models.CategoryAttribute `json:"attributes"`
}

func (r *categoryRequest) toModel() *models.Category {
	attributes := r.Attributes
	if attributes == nil {
		attributes = []models.CategoryAttribute{}
	}
	return &models.Category{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Attributes:  attributes,
	}
}

func (s *Server) listCategories(c *gin.Context) {
	list, err := s.deps.Categories.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	category, err := s.deps.Categories.FindByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, normalize.Category(category))
}

func (s *Server) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "name and slug are required")
		return
	}
	category := req.toModel()
	if err := s.deps.Categories.Create(c.Request.Context(), category); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, category)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "name and slug are required")
		return
	}
	category := req.toModel()
	if err := s.deps.Categories.Update(c.Request.Context(), id, category); err != nil {
		s.fail(c, err)
		return
	}
	category.ID = id
	respond(c, http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	if err := s.deps.Categories.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": id.Hex()})
}
