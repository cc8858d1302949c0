// Package webapp serves the operator screens: one generic table page per
// collection, the dashboard, and the mutation endpoints the screens post to.
package webapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/client"
	"github.com/goelzer/oficina/internal/crud"
	"github.com/goelzer/oficina/internal/dashboard"
	"github.com/goelzer/oficina/internal/export"
	"github.com/goelzer/oficina/internal/models"
	"github.com/goelzer/oficina/internal/query"
	"github.com/goelzer/oficina/internal/render"
	"github.com/goelzer/oficina/internal/store"
)

// Handler owns the UI routes. Reads come from the store snapshot; writes go
// through the crud manager, which refreshes the store before returning.
type Handler struct {
	store    *store.Store
	manager  *crud.Manager
	api      *client.APIClient
	renderer *render.Renderer
	pageSize int
	log      *zap.Logger
}

// NewHandler wires the UI layer.
func NewHandler(st *store.Store, mgr *crud.Manager, api *client.APIClient, renderer *render.Renderer, pageSize int, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Handler{store: st, manager: mgr, api: api, renderer: renderer, pageSize: pageSize, log: log}
}

// RegisterRoutes mounts the UI on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.dashboardPage)
	r.Post("/refresh", h.refresh)
	r.Get("/export/{kind}", h.exportCSV)
	r.Post("/agendamentos/{id}/convert", h.convert)

	r.Route("/{kind}", func(r chi.Router) {
		r.Get("/", h.listPage)
		r.Post("/save", h.save)
		r.Post("/{id}/delete", h.remove)
	})
}

// listPage renders one collection as a table, with search, column sorting
// and pagination driven by query parameters.
func (h *Handler) listPage(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	columns := render.Columns(kind)
	rowFn := render.Row(kind)
	if columns == nil || rowFn == nil {
		http.NotFound(w, r)
		return
	}

	snap := h.store.Snapshot()
	term := r.URL.Query().Get("q")
	sortCol := atoiDefault(r.URL.Query().Get("sort"), -1)
	page := atoiDefault(r.URL.Query().Get("page"), 1)
	desc := r.URL.Query().Get("dir") == "desc"

	opts := query.Options[models.Record]{
		Filter: func(rec models.Record) bool {
			return query.MatchesTerm(term, rowFn(rec, snap)...)
		},
		SortDesc: desc,
		Page:     page,
		PageSize: h.pageSize,
	}
	if sortCol >= 0 && sortCol < len(columns) {
		opts.Less = func(a, b models.Record) bool {
			return strings.ToLower(rowFn(a, snap)[sortCol]) < strings.ToLower(rowFn(b, snap)[sortCol])
		}
	}
	res := query.Apply(h.store.Get(kind), opts)

	var table strings.Builder
	table.WriteString("<table>\n<thead>\n")
	h.renderer.Header(&table, columns)
	table.WriteString("</thead>\n<tbody>\n")
	h.renderer.Table(&table, columns, res.Records, snap, rowFn)
	table.WriteString("</tbody>\n</table>\n")

	var body strings.Builder
	fmt.Fprintf(&body, "<h1>%s</h1>\n", html.EscapeString(pageTitle(kind)))
	fmt.Fprintf(&body, `<form method="get"><input type="search" name="q" value="%s" placeholder="Buscar..."><button>Buscar</button></form>`+"\n",
		html.EscapeString(term))
	body.WriteString(table.String())
	fmt.Fprintf(&body, `<nav class="pages">Página %d de %d (%d registros)</nav>`+"\n",
		res.Page, res.TotalPages, res.Total)
	fmt.Fprintf(&body, `<a href="/export/%s">Exportar CSV</a>`+"\n", kind)

	h.page(w, pageTitle(kind), body.String())
}

// dashboardPage renders the monthly totals and the low stock alert list.
func (h *Handler) dashboardPage(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	summary := dashboard.Summarize(snap, time.Now())

	var body strings.Builder
	body.WriteString("<h1>Painel</h1>\n<ul class=\"cards\">\n")
	fmt.Fprintf(&body, "<li>Clientes: %d</li>\n", summary.TotalCustomers)
	fmt.Fprintf(&body, "<li>Veículos: %d</li>\n", summary.TotalVehicles)
	fmt.Fprintf(&body, "<li>OS abertas: %d</li>\n", summary.OpenWorkOrders)
	fmt.Fprintf(&body, "<li>Receita do mês: %s</li>\n", export.FormatCurrency(summary.MonthlyRevenue))
	fmt.Fprintf(&body, "<li>Despesa do mês: %s</li>\n", export.FormatCurrency(summary.MonthlyExpense))
	fmt.Fprintf(&body, "<li>Lucro do mês: %s</li>\n", export.FormatCurrency(summary.MonthlyProfit))
	body.WriteString("</ul>\n")

	if low := dashboard.LowStock(snap); len(low) > 0 {
		body.WriteString("<h2>Estoque baixo</h2>\n<ul class=\"alerts\">\n")
		for _, p := range low {
			fmt.Fprintf(&body, "<li>%s — %d em estoque (mínimo %d)</li>\n",
				html.EscapeString(p.Description), p.StockQuantity, p.MinStockQuantity)
		}
		body.WriteString("</ul>\n")
	}

	h.page(w, "Painel", body.String())
}

// save accepts the screen's JSON form payload and routes it through the
// manager. Validation failures come back as 422 with every message so the
// form can show them all at once.
func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	var payload struct {
		ID int64 `json:"id"`
	}
	body, err := readBody(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	_ = json.Unmarshal(body, &payload)

	rec, err := models.Decode(kind, body)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	saved, err := h.manager.Save(r.Context(), kind, rec, payload.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	status := http.StatusOK
	if payload.ID == 0 {
		status = http.StatusCreated
	}
	respond(w, status, saved)
}

// remove deletes one record. The screen must post confirm=1, the answer to
// the confirmation prompt; without it the delete is refused.
func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	confirmed := crud.Confirmed(r.FormValue("confirm") == "1")
	if err := h.manager.Remove(r.Context(), kind, id, confirmed); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// convert turns a confirmed appointment into a work order via the backend,
// then refreshes so both screens see the result.
func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	order, err := h.api.Convert(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.manager.RefreshAll(r.Context()); err != nil {
		h.log.Warn("refresh after convert failed", zap.Error(err))
	}
	respond(w, http.StatusCreated, order)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.RefreshAll(r.Context()); err != nil {
		respond(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// exportCSV serves the collection as a spreadsheet-ready download, built
// from the current snapshot.
func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	cols := export.Columns(kind)
	if cols == nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "export not available for " + string(kind)})
		return
	}

	snap := h.store.Snapshot()
	csv := export.Table(snap.Records(kind), snap, cols)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", kind))
	_, _ = w.Write([]byte(csv))
}

// page writes the shared shell around a screen body.
func (h *Handler) page(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n")
	fmt.Fprintf(&b, "<meta charset=\"utf-8\">\n<title>%s — Oficina</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n<nav>\n")
	b.WriteString(`<a href="/">Painel</a>`)
	for _, kind := range models.Kinds() {
		fmt.Fprintf(&b, ` <a href="/%s">%s</a>`, kind, html.EscapeString(pageTitle(kind)))
	}
	b.WriteString("\n</nav>\n<main>\n")
	b.WriteString(body)
	b.WriteString("</main>\n</body>\n</html>\n")
	_, _ = w.Write([]byte(b.String()))
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var (
		vErr *crud.ValidationError
		bErr *crud.BlockedError
		cErr *client.Error
	)
	switch {
	case errors.As(err, &vErr):
		respond(w, http.StatusUnprocessableEntity, map[string][]string{"errors": vErr.Messages})
	case errors.As(err, &bErr):
		respond(w, http.StatusConflict, map[string]string{"error": bErr.Reason})
	case errors.Is(err, crud.ErrNotConfirmed):
		respond(w, http.StatusBadRequest, map[string]string{"error": "deletion requires confirmation"})
	case errors.As(err, &cErr) && cErr.NotFound():
		respond(w, http.StatusNotFound, map[string]string{"error": "record not found"})
	case errors.As(err, &cErr) && cErr.Status == http.StatusUnprocessableEntity:
		// Rules only the backend enforces, like status transitions: the form
		// shows these like any local validation failure.
		respond(w, http.StatusUnprocessableEntity, map[string][]string{"errors": cErr.Messages})
	case errors.As(err, &cErr):
		respond(w, http.StatusBadGateway, map[string]string{"error": cErr.Error()})
	default:
		h.log.Error("request failed", zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, 1<<20))
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// pageTitle returns the screen title for a kind.
func pageTitle(kind models.Kind) string {
	switch kind {
	case models.KindCustomer:
		return "Clientes"
	case models.KindVehicle:
		return "Veículos"
	case models.KindService:
		return "Serviços"
	case models.KindPart:
		return "Peças"
	case models.KindTool:
		return "Ferramentas"
	case models.KindAppointment:
		return "Agendamentos"
	case models.KindWorkOrder:
		return "Ordens de Serviço"
	case models.KindPurchase:
		return "Compras"
	case models.KindMovement:
		return "Movimentações"
	case models.KindExpense:
		return "Despesas Gerais"
	}
	return string(kind)
}
