package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/civitoken/server/internal/apperrors"
	"github.com/civitoken/server/internal/models"
	"github.com/civitoken/server/internal/service"
)

// Handler holds the HTTP handlers for all API routes
type Handler struct {
	svc service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/me", h.GetCurrentUser)

		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/:id", h.GetEvent)
			events.POST("/:id/register", h.RegisterForEvent)
		}

		tokens := api.Group("/tokens")
		{
			tokens.GET("/transactions", h.GetTransactions)
			tokens.GET("/balance", h.GetBalance)
			tokens.POST("/redeem", h.RedeemTokens)
		}

		community := api.Group("/community")
		{
			community.GET("/posts", h.ListPosts)
			community.POST("/posts", h.CreatePost)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
	})
}

// Health handles GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// GetCurrentUser handles GET /api/me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	user, err := h.svc.GetCurrentUser(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListEvents handles GET /api/events?status=&limit=
func (h *Handler) ListEvents(c *gin.Context) {
	status := models.EventStatus(c.Query("status"))
	limit := parseLimit(c)

	events, err := h.svc.ListEvents(c.Request.Context(), status, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /api/events/:id
func (h *Handler) GetEvent(c *gin.Context) {
	event, err := h.svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// RegisterForEvent handles POST /api/events/:id/register
func (h *Handler) RegisterForEvent(c *gin.Context) {
	var req models.RegisterForEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userEmail is required"})
		return
	}

	resp, err := h.svc.RegisterForEvent(c.Request.Context(), c.Param("id"), req.UserEmail)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetTransactions handles GET /api/tokens/transactions?userEmail=
func (h *Handler) GetTransactions(c *gin.Context) {
	userEmail := c.Query("userEmail")
	if userEmail == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userEmail query parameter is required"})
		return
	}

	transactions, err := h.svc.GetTransactions(c.Request.Context(), userEmail)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetBalance handles GET /api/tokens/balance?userEmail=
func (h *Handler) GetBalance(c *gin.Context) {
	userEmail := c.Query("userEmail")
	if userEmail == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userEmail query parameter is required"})
		return
	}

	balance, err := h.svc.GetBalance(c.Request.Context(), userEmail)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// RedeemTokens handles POST /api/tokens/redeem
func (h *Handler) RedeemTokens(c *gin.Context) {
	var req models.RedeemTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userEmail, a positive amount and description are required"})
		return
	}

	transaction, err := h.svc.RedeemTokens(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// ListPosts handles GET /api/community/posts?limit=
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.svc.ListPosts(c.Request.Context(), parseLimit(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// CreatePost handles POST /api/community/posts
func (h *Handler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing required fields"})
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// parseLimit reads the optional limit query parameter; malformed values are
// ignored, matching the original behavior of the listing endpoints.
func parseLimit(c *gin.Context) int {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return 0
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return 0
	}

	return limit
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Event not found"})
	case errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
	case errors.Is(err, apperrors.ErrEventNotRegistrable):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Event not available."})
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Already registered for this event"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}
