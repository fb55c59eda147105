package handler

import (
	"github.com/gin-gonic/gin"

	"geochat/internal/session"
)

// resolveSession loads the caller's session from the cookie, creating one
// when missing, and refreshes the cookie on every request.
func resolveSession(c *gin.Context, store *session.Store, cookieName string, maxAge int) *session.Session {
	id, _ := c.Cookie(cookieName)
	s := store.GetOrCreate(id)
	if s.ID != id {
		c.SetCookie(cookieName, s.ID, maxAge, "/", "", false, true)
	}
	return s
}
