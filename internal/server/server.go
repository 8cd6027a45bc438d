package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mcharvet/boutik/internal/importer"
	"github.com/mcharvet/boutik/internal/models"
	"github.com/mcharvet/boutik/internal/orders"
	"github.com/mcharvet/boutik/internal/store"
)

// OrderPlacer runs the checkout workflow
type OrderPlacer interface {
	Place(ctx context.Context, req *orders.CreateRequest) (*orders.Receipt, error)
}

type OrderStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, f store.OrderFilter) ([]models.Order, int64, error)
	All(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.Status) error
}

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, f store.ProductFilter) ([]models.Product, int64, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CategoryStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindBySlugOrName(ctx context.Context, key string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, id primitive.ObjectID, c *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	List(ctx context.Context, page, limit int) ([]models.User, int64, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type NewsletterStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Newsletter, error)
	List(ctx context.Context) ([]models.Newsletter, error)
	Create(ctx context.Context, n *models.Newsletter) error
	Schedule(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type SubscriberStore interface {
	Create(ctx context.Context, s *models.NewsletterSubscriber) error
	Unsubscribe(ctx context.Context, email string) error
}

type ProductImporter interface {
	ImportXLSX(ctx context.Context, r io.Reader) (*importer.Result, error)
}

// Deps are the collaborators the handlers call into
type Deps struct {
	Workflow    OrderPlacer
	Orders      OrderStore
	Products    ProductStore
	Categories  CategoryStore
	Users       UserStore
	Newsletters NewsletterStore
	Subscribers SubscriberStore
	Importer    ProductImporter
	Health      func(ctx context.Context) error
}

type Server struct {
	router *gin.Engine
	logger *zap.Logger
	mode   string
	deps   Deps
}

// NewServer creates a new server instance
func NewServer(mode string, logger *zap.Logger, deps Deps) *Server {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	server := &Server{
		router: router,
		logger: logger,
		mode:   mode,
		deps:   deps,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.GET("/dashboard", s.dashboard)

		api.POST("/orders", s.createOrder)
		api.GET("/orders", s.listOrders)
		api.GET("/orders/stats", s.orderStats)
		api.GET("/orders/:id", s.getOrder)
		api.PATCH("/orders/:id/status", s.updateOrderStatus)

		api.GET("/products", s.listProducts)
		api.POST("/products", s.createProduct)
		api.POST("/products/import", s.importProducts)
		api.GET("/products/:id", s.getProduct)
		api.PUT("/products/:id", s.updateProduct)
		api.DELETE("/products/:id", s.deleteProduct)

		api.GET("/categories", s.listCategories)
		api.POST("/categories", s.createCategory)
		api.GET("/categories/:id", s.getCategory)
		api.PUT("/categories/:id", s.updateCategory)
		api.DELETE("/categories/:id", s.deleteCategory)

		api.GET("/users", s.listUsers)
		api.POST("/users", s.createUser)
		api.GET("/users/:id", s.getUser)
		api.PUT("/users/:id", s.updateUser)
		api.DELETE("/users/:id", s.deleteUser)

		api.GET("/newsletters", s.listNewsletters)
		api.POST("/newsletters", s.createNewsletter)
		api.POST("/newsletters/:id/schedule", s.scheduleNewsletter)
		api.POST("/subscribers", s.createSubscriber)
		api.DELETE("/subscribers/:email", s.unsubscribe)
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.deps.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "boutik",
		"version": "0.1.0",
	})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
