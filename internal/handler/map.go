package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geochat/internal/model"
	"geochat/internal/session"
)

// MapHandler serves the map layer: the currently displayed rows as flat
// features, viewport change notifications, and session reset.
type MapHandler struct {
	sessions   *session.Store
	cookieName string
	cookieAge  int
}

// NewMapHandler creates a new map handler
func NewMapHandler(sessions *session.Store, cookieName string, cookieAge int) *MapHandler {
	return &MapHandler{
		sessions:   sessions,
		cookieName: cookieName,
		cookieAge:  cookieAge,
	}
}

// MapData handles GET /api/v1/map-data and returns the displayed result set
// as flat features for the map layer.
func (h *MapHandler) MapData(c *gin.Context) {
	s := resolveSession(c, h.sessions, h.cookieName, h.cookieAge)
	s.Lock()
	defer s.Unlock()

	features := make([]model.MapFeature, 0, len(s.Filter.Displayed))
	for _, row := range s.Filter.Displayed {
		feature := model.MapFeature{
			Lat:      row.Place.Latitude,
			Lon:      row.Place.Longitude,
			Location: row.Place.Location,
			PlaceID:  row.Place.PlaceID,
			Grade:    row.Grade(),
		}
		if len(row.Categories) > 0 {
			feature.Category = row.Categories[0].Description
		}
		features = append(features, feature)
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"features": features,
		"count":    len(features),
	})
}

// Viewport handles POST /api/v1/viewport. A zoom change beyond the reset
// threshold drops stacked refinements back to the baseline.
func (h *MapHandler) Viewport(c *gin.Context) {
	var req model.ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ViewportResponse{OK: false})
		return
	}

	s := resolveSession(c, h.sessions, h.cookieName, h.cookieAge)
	s.Lock()
	defer s.Unlock()

	reset := s.Filter.CheckZoomReset(req.Zoom)

	c.JSON(http.StatusOK, model.ViewportResponse{
		OK:    true,
		Reset: reset,
		Rows:  s.Filter.Displayed,
	})
}

// Reset handles POST /api/v1/reset. Stacked refinements are dropped and the
// baseline rows come back; the baseline and conversation history survive.
func (h *MapHandler) Reset(c *gin.Context) {
	s := resolveSession(c, h.sessions, h.cookieName, h.cookieAge)
	s.Lock()
	defer s.Unlock()

	s.Filter.DropRefinements()

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"rows": s.Filter.Displayed,
	})
}
