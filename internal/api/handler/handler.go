package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/decksmith/internal/card"
	"github.com/jon4hz/decksmith/internal/catalog"
	"github.com/jon4hz/decksmith/internal/deck"
	"github.com/jon4hz/decksmith/internal/filter"
	"github.com/jon4hz/decksmith/internal/session"
	"github.com/jon4hz/decksmith/internal/view"
)

// response is the envelope of every API answer. Page is the render-model
// of the session after the action.
type response struct {
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
	Page    *view.Page `json:"page,omitempty"`
}

type Handler struct {
	svc        *session.Service
	builder    *view.Builder
	catalog    catalog.Accessor
	maxResults int
}

func New(svc *session.Service, builder *view.Builder, cat catalog.Accessor, maxResults int) *Handler {
	return &Handler{
		svc:        svc,
		builder:    builder,
		catalog:    cat,
		maxResults: maxResults,
	}
}

// respond saves the session state and writes the page, or the error of the action.
func (h *Handler) respond(c *gin.Context, st *session.State, actionErr error) {
	if err := saveState(c, st); err != nil {
		log.Error("Failed to save session state", "error", err)
		c.JSON(http.StatusInternalServerError, response{Error: "failed to save session"})
		return
	}

	if actionErr != nil && errors.Is(actionErr, deck.ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, response{Error: "not logged in"})
		return
	}

	msg, isUserError := deck.UserMessage(actionErr)
	if actionErr != nil && !isUserError {
		log.Error("Action failed", "path", c.FullPath(), "user", st.User, "error", actionErr)
		c.JSON(http.StatusInternalServerError, response{Error: "internal server error"})
		return
	}

	page, err := h.builder.Build(c.Request.Context(), st)
	if err != nil {
		log.Error("Failed to build page", "user", st.User, "error", err)
		c.JSON(http.StatusInternalServerError, response{Error: "failed to build page"})
		return
	}

	switch {
	case actionErr == nil:
		c.JSON(http.StatusOK, response{Success: true, Page: page})
	case errors.Is(actionErr, session.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response{Error: msg, Page: page})
	default:
		c.JSON(http.StatusUnprocessableEntity, response{Error: msg, Page: page})
	}
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response{Error: "invalid request body"})
		return false
	}
	return true
}

// View returns the page of the current session.
func (h *Handler) View(c *gin.Context) {
	h.respond(c, State(c), nil)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	h.respond(c, st, h.svc.Login(c.Request.Context(), st, req.Username, req.Password))
}

func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	h.respond(c, st, h.svc.Register(c.Request.Context(), st, req.Username, req.Password, req.Confirm))
}

func (h *Handler) Logout(c *gin.Context) {
	st := State(c)
	h.svc.Logout(st)
	h.respond(c, st, nil)
}

type modeRequest struct {
	Mode session.Mode `json:"mode" binding:"required"`
}

// SwitchMode toggles the logged out view between login and register.
func (h *Handler) SwitchMode(c *gin.Context) {
	var req modeRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	h.respond(c, st, h.svc.SwitchMode(st, req.Mode))
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateDeck(c *gin.Context) {
	var req nameRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	h.respond(c, st, h.svc.CreateDeck(c.Request.Context(), st, req.Name))
}

type textRequest struct {
	Text string `json:"text"`
}

// SearchDecks sets the deck list filter. An empty text clears it.
func (h *Handler) SearchDecks(c *gin.Context) {
	var req textRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	h.respond(c, st, h.svc.SetDeckSearch(st, req.Text))
}

func (h *Handler) OpenDeck(c *gin.Context) {
	st := State(c)
	h.respond(c, st, h.svc.OpenDeck(c.Request.Context(), st, c.Param("name")))
}

func (h *Handler) CloseDeck(c *gin.Context) {
	st := State(c)
	h.svc.CloseDeck(st)
	h.respond(c, st, nil)
}

func (h *Handler) DeleteDeck(c *gin.Context) {
	st := State(c)
	h.respond(c, st, h.svc.DeleteDeck(c.Request.Context(), st, c.Param("name")))
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	st := State(c)
	h.respond(c, st, h.svc.ToggleFavorite(c.Request.Context(), st, c.Param("name")))
}

func (h *Handler) AddCard(c *gin.Context) {
	var req nameRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	h.respond(c, st, h.svc.AddCard(c.Request.Context(), st, req.Name))
}

func (h *Handler) RemoveCard(c *gin.Context) {
	st := State(c)
	h.respond(c, st, h.svc.RemoveCard(c.Request.Context(), st, c.Param("card")))
}

func (h *Handler) AddCommander(c *gin.Context) {
	var req nameRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	h.respond(c, st, h.svc.AddCommander(c.Request.Context(), st, req.Name))
}

type cardSearchRequest struct {
	Open bool        `json:"open"`
	Spec filter.Spec `json:"spec"`
}

// CardSearch opens, updates or closes the card search of the open deck.
func (h *Handler) CardSearch(c *gin.Context) {
	var req cardSearchRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	h.respond(c, st, h.svc.SetCardSearch(st, req.Open, req.Spec))
}

type pickerRequest struct {
	Open  bool   `json:"open"`
	Query string `json:"query"`
}

// Picker opens the commander picker at the deck's next stage, or closes it.
func (h *Handler) Picker(c *gin.Context) {
	var req pickerRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	if !req.Open {
		h.svc.ClosePicker(st)
		h.respond(c, st, nil)
		return
	}
	h.respond(c, st, h.svc.OpenPicker(c.Request.Context(), st, req.Query))
}

func (h *Handler) ChooseCommander(c *gin.Context) {
	var req nameRequest
	if !h.bind(c, &req) {
		return
	}
	st := State(c)
	h.respond(c, st, h.svc.ChooseCommander(c.Request.Context(), st, req.Name))
}

// Cards looks up catalog cards by name substring.
func (h *Handler) Cards(c *gin.Context) {
	limit := h.maxResults
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := parseLimit(limitStr)
		if err != nil || l == 0 {
			c.JSON(http.StatusBadRequest, response{Error: "Invalid limit parameter"})
			return
		}
		limit = min(l, h.maxResults)
	}

	cards, err := h.catalog.FindByName(c.Request.Context(), c.Query("q"))
	if err != nil {
		log.Error("Failed to search catalog", "query", c.Query("q"), "error", err)
		c.JSON(http.StatusInternalServerError, response{Error: "Failed to search cards"})
		return
	}

	total := len(cards)
	if len(cards) > limit {
		cards = cards[:limit]
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"cards":   nonNil(cards),
	})
}

type cacheStats interface {
	Stats() (hits, misses int)
}

// Health reports that the server is up, with the catalog cache counters if there is a cache.
func (h *Handler) Health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if cs, ok := h.catalog.(cacheStats); ok {
		hits, misses := cs.Stats()
		resp["cache"] = gin.H{"hits": hits, "misses": misses}
	}
	c.JSON(http.StatusOK, resp)
}

func parseLimit(param string) (int, error) {
	v, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.ToInt(v)
}

func nonNil(cards []card.Card) []card.Card {
	if cards == nil {
		return []card.Card{}
	}
	return cards
}
