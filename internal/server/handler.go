// Package server exposes wizard sessions over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gyeh/notewizard/internal/dispatch"
	"github.com/gyeh/notewizard/internal/export"
	"github.com/gyeh/notewizard/internal/finalize"
	"github.com/gyeh/notewizard/internal/model"
	"github.com/gyeh/notewizard/internal/wizard"
)

// Handler serves wizard sessions kept in memory.
type Handler struct {
	finalize  finalize.Func
	overrides map[int]model.StageOverride
	exportDir string
	log       zerolog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*wizard.Session
}

// NewHandler creates a handler whose sessions finalize through fn. Overrides
// apply to every new session unless the session document carries its own.
// A non-empty exportDir receives a Parquet code summary after each finalize.
func NewHandler(fn finalize.Func, overrides map[int]model.StageOverride, exportDir string, log zerolog.Logger) *Handler {
	return &Handler{
		finalize:  fn,
		overrides: overrides,
		exportDir: exportDir,
		log:       log,
		sessions:  make(map[uuid.UUID]*wizard.Session),
	}
}

// RegisterRoutes registers wizard endpoints on the provided route group.
//
//	POST /sessions                - open a session from a session document
//	GET  /sessions/:id            - current view
//	DELETE /sessions/:id          - close a session
//	POST /sessions/:id/step       - navigate to a stage
//	PUT  /sessions/:id/note       - replace the note text
//	POST /sessions/:id/insert     - insert text at the cursor
//	POST /sessions/:id/evidence   - show, hide or toggle evidence
//	POST /sessions/:id/select     - select the item to highlight
//	PUT  /sessions/:id/overrides  - replace stage overrides
//	POST /sessions/:id/finalize   - finalize and dispatch the note
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions/:id", h.GetSession)
	g.DELETE("/sessions/:id", h.DeleteSession)
	g.POST("/sessions/:id/step", h.GoToStep)
	g.PUT("/sessions/:id/note", h.EditNote)
	g.POST("/sessions/:id/insert", h.InsertText)
	g.POST("/sessions/:id/evidence", h.SetEvidence)
	g.POST("/sessions/:id/select", h.SelectItem)
	g.PUT("/sessions/:id/overrides", h.SetOverrides)
	g.POST("/sessions/:id/finalize", h.Finalize)
}

// Add registers an existing session and returns its id.
func (h *Handler) Add(s *wizard.Session) uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID()] = s
	return s.ID()
}

func (h *Handler) session(c echo.Context) (*wizard.Session, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return s, nil
}

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	in, err := wizard.DecodeInput(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(in.Overrides) == 0 {
		in.Overrides = h.overrides
	}
	s := wizard.New(in, h.finalize, wizard.WithLogger(h.log))
	h.Add(s)
	return c.JSON(http.StatusCreated, s.View())
}

// GetSession handles GET /sessions/:id.
func (h *Handler) GetSession(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.View())
}

// DeleteSession handles DELETE /sessions/:id.
func (h *Handler) DeleteSession(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.sessions, s.ID())
	h.mu.Unlock()
	h.log.Info().Str("session_id", s.ID().String()).Msg("session closed")
	return c.NoContent(http.StatusNoContent)
}

type stepRequest struct {
	ID int `json:"id"`
}

// GoToStep handles POST /sessions/:id/step.
func (h *Handler) GoToStep(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req stepRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	s.GoToStep(req.ID)
	return c.JSON(http.StatusOK, s.View())
}

type noteRequest struct {
	Text   string `json:"text"`
	Cursor *int   `json:"cursor,omitempty"`
}

// EditNote handles PUT /sessions/:id/note.
func (h *Handler) EditNote(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	s.EditNote(req.Text)
	if req.Cursor != nil {
		s.SetCursor(*req.Cursor)
	}
	return c.JSON(http.StatusOK, s.View())
}

// InsertText handles POST /sessions/:id/insert.
func (h *Handler) InsertText(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Cursor != nil {
		s.SetCursor(*req.Cursor)
	}
	s.Editor().InsertAtCursor(req.Text)
	return c.JSON(http.StatusOK, s.View())
}

type evidenceRequest struct {
	Visible *bool `json:"visible,omitempty"`
}

// SetEvidence handles POST /sessions/:id/evidence. Without "visible" the
// setting is toggled.
func (h *Handler) SetEvidence(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req evidenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Visible == nil {
		s.ToggleEvidence()
	} else {
		s.SetEvidenceVisible(*req.Visible)
	}
	return c.JSON(http.StatusOK, s.View())
}

type selectRequest struct {
	List model.StepType `json:"list"`
	ID   *int           `json:"id"`
}

// SelectItem handles POST /sessions/:id/select. "list" is "selected" (the
// default) or "suggested"; a null id clears the selection.
func (h *Handler) SelectItem(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.List == "" {
		req.List = model.StepSelected
	}
	if req.List != model.StepSelected && req.List != model.StepSuggested {
		return echo.NewHTTPError(http.StatusBadRequest, "list must be selected or suggested")
	}
	if req.ID == nil {
		s.ClearSelection()
	} else if !s.SelectItem(req.List, *req.ID) {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return c.JSON(http.StatusOK, s.View())
}

// SetOverrides handles PUT /sessions/:id/overrides.
func (h *Handler) SetOverrides(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var overrides map[int]model.StageOverride
	if err := json.NewDecoder(c.Request().Body).Decode(&overrides); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	for id := range overrides {
		if !model.ValidStageID(id) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown stage id")
		}
	}
	s.SetOverrides(overrides)
	return c.JSON(http.StatusOK, s.View())
}

type finalizeResponse struct {
	Result     *model.FinalizeResult `json:"result,omitempty"`
	ExportPath string                `json:"exportPath,omitempty"`
	View       wizard.View           `json:"view"`
}

// Finalize handles POST /sessions/:id/finalize.
func (h *Handler) Finalize(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	res, err := s.Finalize(c.Request().Context())
	switch {
	case errors.Is(err, finalize.ErrInFlight), errors.Is(err, finalize.ErrStale):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, dispatch.ErrAlreadyDispatched):
		return c.JSON(http.StatusConflict, finalizeResponse{View: s.View()})
	case err != nil:
		return c.JSON(http.StatusBadGateway, finalizeResponse{View: s.View()})
	}

	resp := finalizeResponse{Result: res}
	if h.exportDir != "" {
		rows := export.Rows(res.RequestID, s.Patient(), res)
		path, err := export.WriteCodeSummary(h.exportDir, res.RequestID, rows)
		if err != nil {
			h.log.Error().Err(err).Str("session_id", s.ID().String()).Msg("export code summary")
		} else {
			resp.ExportPath = path
		}
	}
	resp.View = s.View()
	return c.JSON(http.StatusOK, resp)
}
