// Package api serves the JSON interface of decksmith.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/decksmith/internal/api/handler"
	"github.com/jon4hz/decksmith/internal/catalog"
	"github.com/jon4hz/decksmith/internal/config"
	"github.com/jon4hz/decksmith/internal/session"
	"github.com/jon4hz/decksmith/internal/view"
)

const sessionName = "decksmith_session"

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	handler   *handler.Handler
}

// New creates the server and registers all routes.
func New(cfg *config.Config, svc *session.Service, cat catalog.Accessor) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("session key is required")
	}

	maxResults := cfg.GetMaxResults()
	builder := view.NewBuilder(svc.Decks(), cat, maxResults)

	ginEngine := gin.New()
	// deck and card names may contain escaped slashes
	ginEngine.UseRawPath = true
	ginEngine.UnescapePathValues = true
	ginEngine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		cfg:       cfg,
		ginEngine: ginEngine,
		handler:   handler.New(svc, builder, cat, maxResults),
	}
	s.setupSession()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionName, store))
}

func (s *Server) setupRoutes() {
	h := s.handler

	s.ginEngine.GET("/healthz", h.Health)

	api := s.ginEngine.Group("/api")
	api.Use(gzip.Gzip(gzip.DefaultCompression), handler.LoadState())

	api.GET("/view", h.View)
	api.POST("/login", h.Login)
	api.POST("/register", h.Register)
	api.POST("/logout", h.Logout)
	api.POST("/mode", h.SwitchMode)

	protected := api.Group("")
	protected.Use(handler.RequireAuth())

	protected.POST("/decks", h.CreateDeck)
	protected.POST("/decks/search", h.SearchDecks)
	protected.POST("/decks/close", h.CloseDeck)
	protected.POST("/decks/:name/open", h.OpenDeck)
	protected.POST("/decks/:name/favorite", h.ToggleFavorite)
	protected.DELETE("/decks/:name", h.DeleteDeck)

	protected.POST("/deck/cards", h.AddCard)
	protected.DELETE("/deck/cards/:card", h.RemoveCard)
	protected.POST("/deck/commanders", h.AddCommander)
	protected.POST("/deck/search", h.CardSearch)
	protected.POST("/deck/picker", h.Picker)
	protected.POST("/deck/picker/choose", h.ChooseCommander)

	protected.GET("/cards", h.Cards)
}

// Handler returns the http handler of the server.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves until ctx is done and then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "listen", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
