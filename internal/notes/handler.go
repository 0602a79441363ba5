package notes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/samber/lo"

	"noteapp/views/models"
	"noteapp/views/pages"
)

const (
	sessionName = "noteapp"

	flashSuccess = "success"
	flashError   = "error"

	msgSaved          = "Note saved successfully!"
	msgEmpty          = "Please enter a note before saving."
	msgContentMissing = "Content is required"

	maxBodyBytes = 1 << 20
)

type Handler struct {
	svc      *Service
	sessions sessions.Store
	log      *slog.Logger
}

func NewHandler(svc *Service, store sessions.Store, log *slog.Logger) *Handler {
	return &Handler{svc: svc, sessions: store, log: log}
}

// --- REST API Handlers ---

// CreateNote handles POST /api/notes and POST /notes
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var input CreateNoteInput
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&input); err != nil || input.Content == nil {
		h.jsonError(w, msgContentMissing, http.StatusBadRequest)
		return
	}

	note, err := h.svc.Create(r.Context(), *input.Content)
	if IsValidation(err) {
		h.jsonError(w, msgContentMissing, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error("failed to create note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, note, http.StatusCreated)
}

// ListNotes handles GET /api/notes and GET /notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error("failed to list notes", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []*Note{}
	}

	h.jsonResponse(w, notes, http.StatusOK)
}

// GetNote handles GET /api/notes/{id}
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNoteNotFound) {
		h.jsonError(w, "note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("failed to get note", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, note, http.StatusOK)
}

// --- Web Handlers ---

// HomePage handles GET /
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	noteList, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error("failed to list notes", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	session := h.session(r)
	flashes := popFlashes(session)
	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			h.log.Warn("failed to save session", "error", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.IndexPage(flashes, h.notesToViews(noteList)).Render(r.Context(), w); err != nil {
		h.log.Error("failed to render page", "error", err)
	}
}

// SubmitNote handles POST /. It always redirects back to / so a refresh
// does not resubmit the form.
func (h *Handler) SubmitNote(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)

	_, err := h.svc.Create(r.Context(), r.FormValue("content"))
	switch {
	case IsValidation(err):
		session.AddFlash(msgEmpty, flashError)
	case err != nil:
		h.log.Error("failed to create note", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	default:
		session.AddFlash(msgSaved, flashSuccess)
	}

	if err := session.Save(r, w); err != nil {
		h.log.Warn("failed to save session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// --- Helper methods ---

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// session returns the caller's session. A cookie that no longer decodes
// (e.g. after a secret key change) yields a fresh session.
func (h *Handler) session(r *http.Request) *sessions.Session {
	session, err := h.sessions.Get(r, sessionName)
	if err != nil {
		h.log.Debug("discarding unreadable session", "error", err)
	}
	return session
}

func popFlashes(session *sessions.Session) []models.Flash {
	var out []models.Flash
	for _, category := range []string{flashSuccess, flashError} {
		for _, v := range session.Flashes(category) {
			if msg, ok := v.(string); ok {
				out = append(out, models.Flash{Category: category, Message: msg})
			}
		}
	}
	return out
}

func (h *Handler) notesToViews(noteList []*Note) []models.NoteView {
	return lo.Map(noteList, func(n *Note, _ int) models.NoteView {
		return models.NoteView{
			ID:        n.ID,
			Content:   n.Content,
			HTML:      h.svc.RenderMarkdown(n.Content),
			CreatedAt: n.CreatedAt,
		}
	})
}
