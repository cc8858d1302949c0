package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/auth"
	"github.com/goelzer/oficina/internal/export"
	"github.com/goelzer/oficina/internal/models"
	"github.com/goelzer/oficina/internal/storage"
)

// Handler exposes the API endpoints.
type Handler struct {
	service *Service
	auth    *auth.Service
	log     *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(service *Service, authService *auth.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, auth: authService, log: log}
}

// RegisterRoutes mounts every API route. Mutations go through the auth
// middleware; reads and login stay open.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Get("/dashboard", h.getDashboard)
		r.Get("/reports/annual", h.getAnnualReport)
		r.Get("/export/{kind}", h.exportCSV)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware)
			r.Post("/agendamentos/{id}/convert", h.convertAppointment)
			r.Route("/{kind}", func(r chi.Router) {
				r.Get("/", h.list)
				r.Post("/", h.create)
				r.Get("/{id}", h.get)
				r.Put("/{id}", h.update)
				r.Delete("/{id}", h.remove)
			})
		})
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	recs, err := h.service.List(r.Context(), kind)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, recs)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Get(r.Context(), kind, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, rec)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	rec, ok := h.decode(w, r, kind)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), kind, rec)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	existing, err := h.service.Get(r.Context(), kind, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	rec, ok := h.decodeOver(w, r, kind, existing)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), kind, id, rec)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), kind, id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) convertAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	order, err := h.service.ConvertAppointment(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, order)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) getAnnualReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1900 {
		year = time.Now().Year()
	}
	report, err := h.service.AnnualReport(r.Context(), year)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, report)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	cols := export.Columns(kind)
	if cols == nil {
		respond(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("no CSV export for %s", kind)})
		return
	}
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	csv := export.Table(snap.Records(kind), snap, cols)
	filename := fmt.Sprintf("%s_%s.csv", kind, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = io.WriteString(w, csv)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	token, err := h.auth.Login(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) kind(w http.ResponseWriter, r *http.Request) (models.Kind, bool) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": "unknown collection"})
		return "", false
	}
	return kind, true
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, kind models.Kind) (models.Record, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	rec, err := models.Decode(kind, body)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	return rec, true
}

// decodeOver unmarshals the request body over a copy of the stored record,
// so a partial update payload leaves the omitted fields untouched.
func (h *Handler) decodeOver(w http.ResponseWriter, r *http.Request, kind models.Kind, existing models.Record) (models.Record, bool) {
	base, err := json.Marshal(existing)
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	rec, err := models.Decode(kind, base)
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	if err := json.Unmarshal(body, rec); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	rec.SetRecordID(existing.RecordID())
	return rec, true
}

// fail maps service errors onto HTTP statuses: validation problems are 422
// with every message, guard violations 409, missing records 404, everything
// else 500.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		respond(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr.Messages})
		return
	}
	var gerr *GuardError
	if errors.As(err, &gerr) {
		respond(w, http.StatusConflict, map[string]string{"error": gerr.Reason})
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		respond(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	h.log.Error("request failed", zap.Error(err))
	respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
