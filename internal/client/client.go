// Package client is the HTTP collaborator used by the UI: a thin typed
// wrapper over the /api endpoints.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/goelzer/oficina/internal/dashboard"
	"github.com/goelzer/oficina/internal/models"
)

// Collaborator is the persistence contract the UI core depends on. The HTTP
// client below is the production implementation; tests substitute fakes.
type Collaborator interface {
	List(ctx context.Context, kind models.Kind) ([]models.Record, error)
	Get(ctx context.Context, kind models.Kind, id int64) (models.Record, error)
	Create(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error)
	Update(ctx context.Context, kind models.Kind, id int64, rec models.Record) (models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id int64) error
	Dashboard(ctx context.Context) (dashboard.Summary, error)
}

// Error is a failure reported by the backend, kept recoverable: the caller
// retains its previous state and surfaces the message.
type Error struct {
	Status   int
	Messages []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, strings.Join(e.Messages, "; "))
}

// NotFound reports whether the failure was a missing record.
func (e *Error) NotFound() bool { return e.Status == http.StatusNotFound }

// APIClient is a resty-backed Collaborator.
type APIClient struct {
	http *resty.Client
}

// New builds an API client for the given base URL.
func New(baseURL string) *APIClient {
	c := resty.New()
	c.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &APIClient{http: c}
}

// SetToken attaches the operator bearer token to subsequent requests.
func (c *APIClient) SetToken(token string) { c.http.SetAuthToken(token) }

// Login exchanges the operator credentials for a bearer token and attaches
// it to every subsequent request.
func (c *APIClient) Login(ctx context.Context, email, password string) error {
	var payload struct {
		Token string `json:"token"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&payload).
		Post("/api/login")
	if err := c.check(resp, err); err != nil {
		return err
	}
	c.SetToken(payload.Token)
	return nil
}

// List implements Collaborator.
func (c *APIClient) List(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/" + string(kind))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return models.DecodeList(kind, resp.Body())
}

// Get implements Collaborator.
func (c *APIClient) Get(ctx context.Context, kind models.Kind, id int64) (models.Record, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/api/%s/%d", kind, id))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return models.Decode(kind, resp.Body())
}

// Create implements Collaborator. The returned record carries the id the
// backend assigned.
func (c *APIClient) Create(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(rec).Post("/api/" + string(kind))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return models.Decode(kind, resp.Body())
}

// Update implements Collaborator.
func (c *APIClient) Update(ctx context.Context, kind models.Kind, id int64, rec models.Record) (models.Record, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(rec).Put(fmt.Sprintf("/api/%s/%d", kind, id))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return models.Decode(kind, resp.Body())
}

// Delete implements Collaborator.
func (c *APIClient) Delete(ctx context.Context, kind models.Kind, id int64) error {
	resp, err := c.http.R().SetContext(ctx).Delete(fmt.Sprintf("/api/%s/%d", kind, id))
	return c.check(resp, err)
}

// Dashboard implements Collaborator.
func (c *APIClient) Dashboard(ctx context.Context) (dashboard.Summary, error) {
	var summary dashboard.Summary
	resp, err := c.http.R().SetContext(ctx).SetResult(&summary).Get("/api/dashboard")
	if err := c.check(resp, err); err != nil {
		return dashboard.Summary{}, err
	}
	return summary, nil
}

// Convert asks the backend to turn a confirmed appointment into a work
// order.
func (c *APIClient) Convert(ctx context.Context, appointmentID int64) (*models.WorkOrder, error) {
	resp, err := c.http.R().SetContext(ctx).
		Post(fmt.Sprintf("/api/agendamentos/%d/convert", appointmentID))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	rec, err := models.Decode(models.KindWorkOrder, resp.Body())
	if err != nil {
		return nil, err
	}
	return rec.(*models.WorkOrder), nil
}

func (c *APIClient) check(resp *resty.Response, err error) error {
	if err != nil {
		return &Error{Status: 0, Messages: []string{err.Error()}}
	}
	if resp.IsSuccess() {
		return nil
	}

	var payload struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	msgs := []string{resp.Status()}
	if jsonErr := json.Unmarshal(resp.Body(), &payload); jsonErr == nil {
		switch {
		case len(payload.Errors) > 0:
			msgs = payload.Errors
		case payload.Error != "":
			msgs = []string{payload.Error}
		}
	}
	return &Error{Status: resp.StatusCode(), Messages: msgs}
}
