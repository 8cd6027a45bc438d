package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mcharvet/boutik/internal/apperr"
)

// All API responses use the {success, data|error} envelope.

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// fail renders an error envelope. Unexpected errors get a generic message
// and full server-side logging; non-release mode includes the detail.
func (s *Server) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindUnexpected {
		s.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}

	body := gin.H{"success": false, "error": apperr.Message(err)}
	if kind == apperr.KindUnexpected && s.mode != "release" {
		body["details"] = err.Error()
	}
	c.JSON(apperr.HTTPStatus(kind), body)
}

func (s *Server) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// objectID parses a path parameter as an ObjectID, failing the request when
// it is malformed
func (s *Server) objectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		s.badRequest(c, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
