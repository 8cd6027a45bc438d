package normalize

import (
	"github.com/mcharvet/boutik/internal/models"
)

// DashboardPayload is everything the admin landing page renders
type DashboardPayload struct {
	TotalOrders   int              `json:"totalOrders"`
	TotalProducts int              `json:"totalProducts"`
	TotalUsers    int              `json:"totalUsers"`
	TotalRevenue  float64          `json:"totalRevenue"`
	RecentOrders  []models.Order   `json:"recentOrders"`
	TopProducts   []models.Product `json:"topProducts"`
}

// Dashboard always yields a renderable payload, even for nil input
func Dashboard(d *DashboardPayload) *DashboardPayload {
	if d == nil {
		d = &DashboardPayload{}
	}
	out := *d
	if out.RecentOrders == nil {
		out.RecentOrders = []models.Order{}
	}
	if out.TopProducts == nil {
		out.TopProducts = []models.Product{}
	}
	return &out
}

// AnalyticsPayload feeds the admin analytics charts
type AnalyticsPayload struct {
	TotalRevenue      float64        `json:"totalRevenue"`
	TotalOrders       int            `json:"totalOrders"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	OrdersByStatus    map[string]int `json:"ordersByStatus"`
	OrdersBySource    map[string]int `json:"ordersBySource"`
}

// Analytics always yields a renderable payload, even for nil input
func Analytics(a *AnalyticsPayload) *AnalyticsPayload {
	if a == nil {
		a = &AnalyticsPayload{}
	}
	out := *a
	if out.OrdersByStatus == nil {
		out.OrdersByStatus = map[string]int{}
	}
	if out.OrdersBySource == nil {
		out.OrdersBySource = map[string]int{}
	}
	return &out
}

// APIResponse is the uniform shape handed to list views
type APIResponse struct {
	Success bool   `json:"success"`
	Data    []any  `json:"data"`
	Error   string `json:"error"`
	Total   int    `json:"total"`
	Pages   int    `json:"pages"`
}

// FromEnvelope coerces a decoded {success, data, error} payload into an
// APIResponse. Single-object data becomes a one-element slice.
func FromEnvelope(raw map[string]any) APIResponse {
	out := APIResponse{Data: []any{}}
	if raw == nil {
		return out
	}
	if v, ok := raw["success"].(bool); ok && v {
		out.Success = true
	}
	if msg, ok := raw["error"].(string); ok {
		out.Error = msg
	}
	switch data := raw["data"].(type) {
	case nil:
	case []any:
		out.Data = data
	default:
		out.Data = []any{data}
	}
	out.Total = intField(raw, "total", len(out.Data))
	out.Pages = intField(raw, "pages", 1)
	return out
}

// intField reads a numeric field that JSON decoding may have produced as
// float64 or int
func intField(raw map[string]any, key string, fallback int) int {
	switch v := raw[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
