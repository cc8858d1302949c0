package webapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goelzer/oficina/internal/auth"
	"github.com/goelzer/oficina/internal/client"
	"github.com/goelzer/oficina/internal/config"
	"github.com/goelzer/oficina/internal/crud"
	"github.com/goelzer/oficina/internal/models"
	"github.com/goelzer/oficina/internal/render"
	"github.com/goelzer/oficina/internal/server"
	"github.com/goelzer/oficina/internal/storage/blob"
	"github.com/goelzer/oficina/internal/store"
)

// newStack starts the whole pipeline end to end: a file-backed API server and
// the UI wired to it over HTTP.
func newStack(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	repo, err := blob.Open(filepath.Join(t.TempDir(), "data.json"), nil)
	require.NoError(t, err)
	apiRouter := chi.NewRouter()
	server.NewHandler(
		server.NewService(repo, nil),
		auth.NewService(config.AuthConfig{}, nil),
		nil,
	).RegisterRoutes(apiRouter)
	apiSrv := httptest.NewServer(apiRouter)
	t.Cleanup(apiSrv.Close)

	api := client.New(apiSrv.URL)
	st := store.New(api, nil)
	require.NoError(t, st.RefreshAll(context.Background()))
	mgr := crud.NewManager(api, st, nil, nil)

	uiRouter := chi.NewRouter()
	NewHandler(st, mgr, api, render.New(nil), 2, nil).RegisterRoutes(uiRouter)
	uiSrv := httptest.NewServer(uiRouter)
	t.Cleanup(uiSrv.Close)

	return uiSrv, st
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func saveCustomer(t *testing.T, srv *httptest.Server, name string) *models.Customer {
	t.Helper()
	resp := postJSON(t, srv.URL+"/clientes/save", &models.Customer{Name: name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()
	var c models.Customer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	return &c
}

func pageBody(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return buf.String()
}

func TestSaveUpdatesStoreAndPage(t *testing.T) {
	srv, st := newStack(t)

	created := saveCustomer(t, srv, "Maria Souza")
	assert.Equal(t, int64(1), created.ID)
	require.Len(t, st.Get(models.KindCustomer), 1)

	body := pageBody(t, srv.URL+"/clientes")
	assert.Contains(t, body, "Maria Souza")
}

func TestSaveValidationErrors(t *testing.T) {
	srv, st := newStack(t)

	resp := postJSON(t, srv.URL+"/clientes/save", &models.Customer{Name: "x", Email: "bad"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Len(t, payload.Errors, 2)
	assert.Empty(t, st.Get(models.KindCustomer))
}

func TestListPageEmptyPlaceholder(t *testing.T) {
	srv, _ := newStack(t)
	body := pageBody(t, srv.URL+"/clientes")
	assert.Contains(t, body, "Nenhum registro encontrado")
}

func TestListPageSearchAndPagination(t *testing.T) {
	srv, _ := newStack(t)
	for _, name := range []string{"Ana Silva", "Bruno Silva", "Carla Souza"} {
		saveCustomer(t, srv, name)
	}

	body := pageBody(t, srv.URL+"/clientes?q="+url.QueryEscape("silva"))
	assert.Contains(t, body, "Ana Silva")
	assert.Contains(t, body, "Bruno Silva")
	assert.NotContains(t, body, "Carla Souza")

	// Page size is 2; the third record lands on page 2.
	body = pageBody(t, srv.URL+"/clientes?page=2")
	assert.Contains(t, body, "Carla Souza")
	assert.NotContains(t, body, "Ana Silva")
	assert.Contains(t, body, "Página 2 de 2")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	srv, st := newStack(t)
	created := saveCustomer(t, srv, "Maria Souza")

	// No confirm parameter: refused, record stays.
	resp, err := http.PostForm(fmt.Sprintf("%s/clientes/%d/delete", srv.URL, created.ID), url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, st.Get(models.KindCustomer), 1)

	resp, err = http.PostForm(fmt.Sprintf("%s/clientes/%d/delete", srv.URL, created.ID),
		url.Values{"confirm": {"1"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, st.Get(models.KindCustomer))
}

func TestDeleteBlockedByGuard(t *testing.T) {
	srv, st := newStack(t)
	customer := saveCustomer(t, srv, "Maria Souza")

	resp := postJSON(t, srv.URL+"/veiculos/save", &models.Vehicle{
		CustomerID: customer.ID, Plate: "ABC-1234", Brand: "Fiat", Model: "Uno",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.PostForm(fmt.Sprintf("%s/clientes/%d/delete", srv.URL, customer.ID),
		url.Values{"confirm": {"1"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Len(t, st.Get(models.KindCustomer), 1)
}

func TestDashboardPage(t *testing.T) {
	srv, _ := newStack(t)
	saveCustomer(t, srv, "Maria Souza")

	resp := postJSON(t, srv.URL+"/pecas/save", &models.Part{
		Description: "Filtro de óleo", UnitCost: 10, SalePrice: 20,
		StockQuantity: 1, MinStockQuantity: 3,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := pageBody(t, srv.URL+"/")
	assert.Contains(t, body, "Clientes: 1")
	assert.Contains(t, body, "Estoque baixo")
	assert.Contains(t, body, "Filtro de óleo")
}

func TestConvertEndpoint(t *testing.T) {
	srv, st := newStack(t)
	customer := saveCustomer(t, srv, "Maria Souza")

	resp := postJSON(t, srv.URL+"/veiculos/save", &models.Vehicle{
		CustomerID: customer.ID, Plate: "ABC-1234", Brand: "Fiat", Model: "Uno",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var vehicle models.Vehicle
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vehicle))

	resp = postJSON(t, srv.URL+"/agendamentos/save", &models.Appointment{
		CustomerID: customer.ID, VehicleID: vehicle.ID,
		Date: "2026-03-20", Status: models.AppointmentConfirmed,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var appt models.Appointment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&appt))

	resp, err := http.Post(fmt.Sprintf("%s/agendamentos/%d/convert", srv.URL, appt.ID), "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Len(t, st.Get(models.KindWorkOrder), 1)
	refreshed := st.Snapshot().Appointments[0]
	assert.Equal(t, models.AppointmentInService, refreshed.Status)
}

func TestBackendRuleSurfacesAsValidationError(t *testing.T) {
	srv, _ := newStack(t)
	customer := saveCustomer(t, srv, "Maria Souza")

	resp := postJSON(t, srv.URL+"/veiculos/save", &models.Vehicle{
		CustomerID: customer.ID, Plate: "ABC-1234", Brand: "Fiat", Model: "Uno",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var vehicle models.Vehicle
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vehicle))

	resp = postJSON(t, srv.URL+"/agendamentos/save", &models.Appointment{
		CustomerID: customer.ID, VehicleID: vehicle.ID, Date: "2026-03-20",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var appt models.Appointment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&appt))

	// Only the backend checks status transitions; its rejection must reach
	// the form as a validation failure, not a gateway error.
	appt.Status = models.AppointmentCompleted
	resp = postJSON(t, srv.URL+"/agendamentos/save", &appt)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Errors, 1)
	assert.Contains(t, payload.Errors[0], "transition")
}

func TestExportCSVEndpoint(t *testing.T) {
	srv, _ := newStack(t)
	saveCustomer(t, srv, "Maria Souza")

	resp, err := http.Get(srv.URL + "/export/clientes")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), `;"Nome"`))
	assert.Contains(t, buf.String(), "Maria Souza")
}
