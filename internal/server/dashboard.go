package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcharvet/boutik/internal/normalize"
	"github.com/mcharvet/boutik/internal/orders"
	"github.com/mcharvet/boutik/internal/store"
)

// dashboard assembles the admin landing page payload: headline counts,
// recent orders and top products, plus the analytics chart feed.
func (s *Server) dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	all, err := s.deps.Orders.All(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	topProducts, totalProducts, err := s.deps.Products.List(ctx, store.ProductFilter{Sort: "rating", Limit: 5})
	if err != nil {
		s.fail(c, err)
		return
	}
	_, totalUsers, err := s.deps.Users.List(ctx, 1, 1)
	if err != nil {
		s.fail(c, err)
		return
	}

	metrics := orders.CalculateMetrics(all)
	recent := all
	if len(recent) > 5 {
		recent = recent[:5]
	}

	statusCounts := make(map[string]int, len(metrics.ByStatus))
	for status, n := range metrics.ByStatus {
		statusCounts[string(status)] = n
	}

	respond(c, http.StatusOK, gin.H{
		"dashboard": normalize.Dashboard(&normalize.DashboardPayload{
			TotalOrders:   metrics.TotalOrders,
			TotalProducts: int(totalProducts),
			TotalUsers:    int(totalUsers),
			TotalRevenue:  metrics.TotalRevenue,
			RecentOrders:  recent,
			TopProducts:   topProducts,
		}),
		"analytics": normalize.Analytics(&normalize.AnalyticsPayload{
			TotalRevenue:      metrics.TotalRevenue,
			TotalOrders:       metrics.TotalOrders,
			AverageOrderValue: metrics.AverageOrderValue,
			OrdersByStatus:    statusCounts,
			OrdersBySource:    metrics.BySource,
		}),
	})
}
