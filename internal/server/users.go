package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcharvet/boutik/internal/models"
	"github.com/mcharvet/boutik/internal/normalize"
)

type userRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Role   string `json:"role" binding:"omitempty,oneof=admin customer"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (r *userRequest) toModel() *models.User {
	return &models.User{
		Name:   r.Name,
		Email:  r.Email,
		Role:   r.Role,
		Status: r.Status,
	}
}

func (s *Server) listUsers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	list, total, err := s.deps.Users.List(c.Request.Context(), page, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"users": list, "total": total})
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	user, err := s.deps.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, normalize.User(user))
}

func (s *Server) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "name and a valid email are required")
		return
	}
	user := req.toModel()
	if err := s.deps.Users.Create(c.Request.Context(), user); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, user)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "name and a valid email are required")
		return
	}
	user := req.toModel()
	if err := s.deps.Users.Update(c.Request.Context(), id, user); err != nil {
		s.fail(c, err)
		return
	}
	user.ID = id
	respond(c, http.StatusOK, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	if err := s.deps.Users.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": id.Hex()})
}
