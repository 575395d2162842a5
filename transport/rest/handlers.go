package rest

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
	"github.com/rocketscienceinc/tictactoe-spa/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-spa/internal/view"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"rows": rows}).
		ParseFS(templatesFS, "templates/index.html"),
)

// illegalCell is outside the board, so the controller ignores it.
const illegalCell = -1

type moveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger     *slog.Logger
	session    gameSession
	sessionTTL time.Duration
}

func newHandlers(logger *slog.Logger, session gameSession, sessionTTL time.Duration) *handlers {
	return &handlers{
		logger:     logger,
		session:    session,
		sessionTTL: sessionTTL,
	}
}

// Ping - liveness probe.
func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

// Page - renders the game page.
func (that *handlers) Page(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Page")

	sessionID := pkg.SessionID(w, r, that.sessionTTL)

	state, err := that.session.State(r.Context(), sessionID)
	if err != nil {
		log.Error("failed to get game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err = pageTemplate.Execute(&buf, view.FromState(state)); err != nil {
		log.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = buf.WriteTo(w); err != nil {
		log.Error("failed to write page", "error", err)
	}
}

// PageMove - form post from a square; always redirects back to the page.
func (that *handlers) PageMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "PageMove")

	sessionID := pkg.SessionID(w, r, that.sessionTTL)

	cell, err := strconv.Atoi(r.FormValue("cell"))
	if err != nil {
		cell = illegalCell
	}

	if _, err = that.session.ApplyMove(r.Context(), sessionID, cell); err != nil {
		log.Error("failed to apply move", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PageRestart - form post from the restart button.
func (that *handlers) PageRestart(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "PageRestart")

	sessionID := pkg.SessionID(w, r, that.sessionTTL)

	if _, err := that.session.Restart(r.Context(), sessionID); err != nil {
		log.Error("failed to restart game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// State - returns the current game as JSON.
func (that *handlers) State(w http.ResponseWriter, r *http.Request) {
	sessionID := pkg.SessionID(w, r, that.sessionTTL)

	state, err := that.session.State(r.Context(), sessionID)
	that.writeGame(w, "State", state, err)
}

// Move - applies {"cell": n} and returns the game. Illegal cells return the unchanged game.
func (that *handlers) Move(w http.ResponseWriter, r *http.Request) {
	sessionID := pkg.SessionID(w, r, that.sessionTTL)

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	state, err := that.session.ApplyMove(r.Context(), sessionID, *req.Cell)
	that.writeGame(w, "Move", state, err)
}

// Restart - starts a new game and returns it.
func (that *handlers) Restart(w http.ResponseWriter, r *http.Request) {
	sessionID := pkg.SessionID(w, r, that.sessionTTL)

	state, err := that.session.Restart(r.Context(), sessionID)
	that.writeGame(w, "Restart", state, err)
}

func (that *handlers) writeGame(w http.ResponseWriter, method string, state entity.GameState, err error) {
	if err != nil {
		that.logger.Error("game session failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, http.StatusOK, view.FromState(state))
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

// rows - splits the squares into the three board rows for the template.
func rows(squares []view.Square) [][]view.Square {
	result := make([][]view.Square, 0, 3)
	for start := 0; start < len(squares); start += 3 {
		end := min(start+3, len(squares))
		result = append(result, squares[start:end])
	}

	return result
}
