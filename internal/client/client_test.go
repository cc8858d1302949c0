package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goelzer/oficina/internal/models"
)

func TestListDecodesCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/clientes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]*models.Customer{
			{ID: 1, Name: "Maria"},
			{ID: 2, Name: "João"},
		})
	}))
	defer srv.Close()

	recs, err := New(srv.URL).List(context.Background(), models.KindCustomer)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Maria", recs[0].(*models.Customer).Name)
	assert.Equal(t, int64(2), recs[1].RecordID())
}

func TestCreateSendsRecordAndReturnsAssignedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var c models.Customer
		require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		c.ID = 7
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&c)
	}))
	defer srv.Close()

	created, err := New(srv.URL).Create(context.Background(), models.KindCustomer,
		&models.Customer{Name: "Maria"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.RecordID())
}

func TestErrorParsesValidationMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"errors": {"name is required", "invalid email"},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Create(context.Background(), models.KindCustomer, &models.Customer{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, []string{"name is required", "invalid email"}, apiErr.Messages)
}

func TestErrorNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "record not found"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Get(context.Background(), models.KindCustomer, 42)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.NotFound())
	assert.Equal(t, []string{"record not found"}, apiErr.Messages)
}

func TestLoginAttachesTokenToRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/login" {
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "operador@oficina.local", creds["email"])
			assert.Equal(t, "s3cret", creds["password"])
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
			return
		}
		// Every call after login must carry the bearer token.
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&models.Customer{ID: 1, Name: "Maria"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Login(context.Background(), "operador@oficina.local", "s3cret"))

	_, err := c.Create(context.Background(), models.KindCustomer, &models.Customer{Name: "Maria"})
	require.NoError(t, err)
}

func TestLoginRejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))
	defer srv.Close()

	err := New(srv.URL).Login(context.Background(), "operador@oficina.local", "wrong")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestDeleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/veiculos/3", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL).Delete(context.Background(), models.KindVehicle, 3))
}

func TestDashboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totalClientes": 3, "receitaMensal": 150.5,
		})
	}))
	defer srv.Close()

	summary, err := New(srv.URL).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalCustomers)
	assert.InDelta(t, 150.5, summary.MonthlyRevenue, 0.001)
}

func TestConvert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/agendamentos/5/convert", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&models.WorkOrder{ID: 9, Status: models.OrderOpen})
	}))
	defer srv.Close()

	order, err := New(srv.URL).Convert(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(9), order.ID)
	assert.Equal(t, models.OrderOpen, order.Status)
}
