package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcharvet/boutik/internal/models"
)

type newsletterRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

func (s *Server) listNewsletters(c *gin.Context) {
	list, err := s.deps.Newsletters.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (s *Server) createNewsletter(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "subject and body are required")
		return
	}
	newsletter := &models.Newsletter{Subject: req.Subject, Body: req.Body}
	if err := s.deps.Newsletters.Create(c.Request.Context(), newsletter); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, newsletter)
}

type scheduleRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}

func (s *Server) scheduleNewsletter(c *gin.Context) {
	id, ok := s.objectID(c, "id")
	if !ok {
		return
	}
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "scheduledAt is required")
		return
	}
	if err := s.deps.Newsletters.Schedule(c.Request.Context(), id, req.ScheduledAt); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"id":          id.Hex(),
		"status":      models.NewsletterScheduled,
		"scheduledAt": req.ScheduledAt,
	})
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) createSubscriber(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "a valid email is required")
		return
	}
	sub := &models.NewsletterSubscriber{Email: req.Email}
	if err := s.deps.Subscribers.Create(c.Request.Context(), sub); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, sub)
}

// unsubscribe flips the subscriber status; the record is kept
func (s *Server) unsubscribe(c *gin.Context) {
	email := c.Param("email")
	if err := s.deps.Subscribers.Unsubscribe(c.Request.Context(), email); err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"email": email, "status": models.SubscriberUnsubscribed})
}
