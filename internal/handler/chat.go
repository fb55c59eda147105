package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"geochat/internal/filter"
	"geochat/internal/model"
	"geochat/internal/service"
	"geochat/internal/session"
)

// ChatHandler handles chat message requests
type ChatHandler struct {
	assistant  *service.Assistant
	sessions   *session.Store
	cookieName string
	cookieAge  int
}

// NewChatHandler creates a new chat handler
func NewChatHandler(assistant *service.Assistant, sessions *session.Store, cookieName string, cookieAge int) *ChatHandler {
	return &ChatHandler{
		assistant:  assistant,
		sessions:   sessions,
		cookieName: cookieName,
		cookieAge:  cookieAge,
	}
}

// Chat handles POST /api/v1/chat. Refinements of the current result set are
// answered locally from session state; everything else goes through the full
// translation pipeline and establishes a new baseline.
func (h *ChatHandler) Chat(c *gin.Context) {
	started := time.Now()

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ChatResponse{
			OK:    false,
			Error: "message is required",
		})
		return
	}

	s := resolveSession(c, h.sessions, h.cookieName, h.cookieAge)
	s.Lock()
	defer s.Unlock()

	// A big zoom jump since the baseline makes stacked refinements stale
	wasReset := false
	if req.Zoom != nil {
		wasReset = s.Filter.CheckZoomReset(*req.Zoom)
	}

	decision, criteria := filter.Classify(req.Message, s.Filter.HasBaseline)
	if decision == filter.Refinement {
		h.refine(c, s, criteria, wasReset, started)
		return
	}

	h.fullQuery(c, s, req, wasReset, started)
}

// refine narrows the displayed set without touching the graph or the model
func (h *ChatHandler) refine(c *gin.Context, s *session.Session, criteria filter.Criteria, wasReset bool, started time.Time) {
	rows, ok := s.Filter.Refine(criteria)
	if !ok {
		c.JSON(http.StatusOK, model.ChatResponse{
			OK:      true,
			Answer:  "**No places match that refinement.** The previous results are still shown; try a different filter.",
			Rows:    s.Filter.Displayed,
			Refined: true,
			NoMatch: true,
			Reset:   wasReset,
			Took:    time.Since(started).Milliseconds(),
		})
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{
		OK:      true,
		Answer:  service.FormatRows(rows),
		Rows:    rows,
		Refined: true,
		Reset:   wasReset,
		Took:    time.Since(started).Milliseconds(),
	})
}

// fullQuery runs the translation pipeline and installs the result as the new
// refinement baseline.
func (h *ChatHandler) fullQuery(c *gin.Context, s *session.Session, req model.ChatRequest, wasReset bool, started time.Time) {
	query := model.Query{
		Text:       req.Message,
		CategoryID: req.CategoryID,
		Bounds:     req.Bounds,
		History:    s.History,
	}

	result, err := h.assistant.Answer(c.Request.Context(), query, s.ID, req.Datasets)
	if err != nil {
		c.JSON(http.StatusOK, model.ChatResponse{
			OK:    false,
			Error: errorMessage(err),
			Reset: wasReset,
			Took:  time.Since(started).Milliseconds(),
		})
		return
	}

	zoom := 0.0
	if req.Zoom != nil {
		zoom = *req.Zoom
	}
	s.Filter.SetBaseline(result.Rows, zoom)
	s.AppendHistory(req.Message, result.Answer)

	c.JSON(http.StatusOK, model.ChatResponse{
		OK:               true,
		Answer:           result.Answer,
		Rows:             result.Rows,
		DetectedCategory: req.CategoryID,
		NoMatch:          result.Kind == service.ResultEmpty,
		Reset:            wasReset,
		Took:             time.Since(started).Milliseconds(),
	})
}

// errorMessage maps pipeline errors to user-facing text. The generated
// statement never appears here.
func errorMessage(err error) string {
	if errors.Is(err, service.ErrValidationRejected) {
		return "I could not safely answer that question. Please rephrase it."
	}
	return "Something went wrong while answering. Please try again."
}
