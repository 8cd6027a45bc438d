package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcharvet/boutik/internal/models"
	"github.com/mcharvet/boutik/internal/normalize"
	"github.com/mcharvet/boutik/internal/orders"
	"github.com/mcharvet/boutik/internal/store"
)

func (s *Server) createOrder(c *gin.Context) {
	var req orders.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}

	receipt, err := s.deps.Workflow.Place(c.Request.Context(), &req)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, receipt)
}

type orderPagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalOrders int64 `json:"totalOrders"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func (s *Server) listOrders(c *gin.Context) {
	filter := store.OrderFilter{
		Status: models.Status(c.Query("status")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			s.badRequest(c, "invalid userId")
			return
		}
		filter.UserID = &id
	}

	list, total, err := s.deps.Orders.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	respond(c, http.StatusOK, gin.H{
		"orders": list,
		"pagination": orderPagination{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalOrders: total,
			HasNext:     filter.Page < totalPages,
			HasPrev:     filter.Page > 1,
		},
	})
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	order, err := s.deps.Orders.FindByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, normalize.Order(order))
}

type statusUpdateRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "status is required")
		return
	}

	order, err := s.deps.Orders.FindByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := orders.ValidateTransition(order.Status, req.Status); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.deps.Orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		s.fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"orderId":     id.Hex(),
		"orderNumber": order.OrderNumber,
		"status":      req.Status,
		"statusInfo":  models.StatusInfo(req.Status),
	})
}

// orderStats feeds the admin dashboard: aggregate metrics plus advisory
// notifications
func (s *Server) orderStats(c *gin.Context) {
	all, err := s.deps.Orders.All(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"metrics":       orders.CalculateMetrics(all),
		"notifications": orders.Notifications(all, time.Now()),
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
