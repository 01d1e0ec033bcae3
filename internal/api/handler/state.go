package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/decksmith/internal/session"
)

const (
	sessionStateKey = "state"
	contextStateKey = "session_state"
)

// LoadState is a middleware that restores the session state from the cookie
// session and puts it into the gin context.
func LoadState() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := sessions.Default(c).Get(sessionStateKey).(string)
		c.Set(contextStateKey, session.Decode(raw))
		c.Next()
	}
}

// RequireAuth aborts with 401 if nobody is logged in to the session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !State(c).LoggedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{Success: false, Error: "not logged in"})
			return
		}
		c.Next()
	}
}

// State returns the session state of the request. LoadState must run first.
func State(c *gin.Context) *session.State {
	if st, ok := c.Get(contextStateKey); ok {
		if state, ok := st.(*session.State); ok {
			return state
		}
	}
	st := session.NewState()
	c.Set(contextStateKey, st)
	return st
}

func saveState(c *gin.Context, st *session.State) error {
	raw, err := st.Encode()
	if err != nil {
		return err
	}
	s := sessions.Default(c)
	s.Set(sessionStateKey, raw)
	if err := s.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
