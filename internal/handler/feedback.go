package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"geochat/internal/model"
	"geochat/internal/repository"
)

// validActions are the feedback actions the API accepts
var validActions = map[string]bool{
	"click":   true,
	"focus":   true,
	"dismiss": true,
}

// FeedbackHandler records user actions against answered searches
type FeedbackHandler struct {
	logs *repository.LogStore
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(logs *repository.LogStore) *FeedbackHandler {
	return &FeedbackHandler{logs: logs}
}

// Feedback handles POST /api/v1/feedback
func (h *FeedbackHandler) Feedback(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.FeedbackResponse{
			Success: false,
			Message: "search_id, place_id and action are required",
		})
		return
	}

	if !validActions[req.Action] {
		c.JSON(http.StatusBadRequest, model.FeedbackResponse{
			Success: false,
			Message: "action must be one of: click, focus, dismiss",
		})
		return
	}

	if err := h.logs.LogFeedback(c.Request.Context(), req.SearchID, req.PlaceID, req.Action); err != nil {
		log.Printf("Warning: failed to record feedback: %v", err)
		c.JSON(http.StatusInternalServerError, model.FeedbackResponse{
			Success: false,
			Message: "failed to record feedback",
		})
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{Success: true})
}
