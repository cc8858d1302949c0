// Package server exposes the HTTP API: generic CRUD for every record kind,
// the dashboard summary, CSV export, and operator login. One handler and one
// service cover all kinds; per-entity behavior lives in the record types and
// validators.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/dashboard"
	"github.com/goelzer/oficina/internal/models"
	"github.com/goelzer/oficina/internal/storage"
	"github.com/goelzer/oficina/internal/validate"
)

// ValidationError carries every violated field rule for a rejected record.
type ValidationError struct{ Messages []string }

func (e *ValidationError) Error() string { return strings.Join(e.Messages, "; ") }

// GuardError blocks a delete that would orphan dependent records.
type GuardError struct{ Reason string }

func (e *GuardError) Error() string { return e.Reason }

// Service owns the business rules between the HTTP layer and storage.
type Service struct {
	repo storage.Repository
	log  *zap.Logger
}

// NewService creates the API service.
func NewService(repo storage.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// List returns the full collection for a kind, never nil.
func (s *Service) List(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	recs, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.Record{}
	}
	return recs, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, kind models.Kind, id int64) (models.Record, error) {
	return s.repo.Get(ctx, kind, id)
}

// Create validates, applies creation defaults, stores the record, and runs
// any follow-up effects (purchases restock their part).
func (s *Service) Create(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error) {
	applyCreateDefaults(rec)
	if errs := validate.Record(rec); len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	created, err := s.repo.Create(ctx, kind, rec)
	if err != nil {
		return nil, err
	}

	if p, ok := created.(*models.Purchase); ok {
		if err := s.restock(ctx, p); err != nil {
			s.log.Warn("purchase stored but restock failed",
				zap.Int64("purchase", p.ID), zap.Error(err))
		}
	}
	return created, nil
}

// Update validates the record and, for status-bearing kinds, enforces the
// allowed status transitions against the stored record.
func (s *Service) Update(ctx context.Context, kind models.Kind, id int64, rec models.Record) (models.Record, error) {
	if errs := validate.Record(rec); len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	existing, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(existing, rec); err != nil {
		return nil, &ValidationError{Messages: []string{err.Error()}}
	}
	if o, ok := rec.(*models.WorkOrder); ok {
		o.TotalValue = o.ComputeTotal()
		if (o.Status == models.OrderCompleted || o.Status == models.OrderCancelled) && o.ClosedAt == "" {
			o.ClosedAt = time.Now().Format("2006-01-02")
		}
	}
	return s.repo.Update(ctx, kind, id, rec)
}

// Delete removes a record after checking the referential guards.
func (s *Service) Delete(ctx context.Context, kind models.Kind, id int64) error {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return err
	}
	if reason, blocked := validate.DeleteGuard(snap, kind, id); blocked {
		return &GuardError{Reason: reason}
	}
	return s.repo.Delete(ctx, kind, id)
}

// ConvertAppointment turns a confirmed appointment into an open work order
// and advances the appointment to in-service. The new order starts without
// line items; they are added as the job is diagnosed.
func (s *Service) ConvertAppointment(ctx context.Context, id int64) (*models.WorkOrder, error) {
	rec, err := s.repo.Get(ctx, models.KindAppointment, id)
	if err != nil {
		return nil, err
	}
	appt, ok := rec.(*models.Appointment)
	if !ok {
		return nil, storage.ErrNotFound
	}
	if appt.Status != models.AppointmentConfirmed {
		return nil, &ValidationError{Messages: []string{
			fmt.Sprintf("only confirmed appointments can be converted (status is %s)", appt.Status),
		}}
	}

	order := &models.WorkOrder{
		CustomerID: appt.CustomerID,
		VehicleID:  appt.VehicleID,
		OpenedAt:   time.Now().Format("2006-01-02"),
		Status:     models.OrderOpen,
		Services:   []models.WorkOrderService{},
		Parts:      []models.WorkOrderPart{},
	}
	created, err := s.repo.Create(ctx, models.KindWorkOrder, order)
	if err != nil {
		return nil, err
	}

	appt.Status = models.AppointmentInService
	if _, err := s.repo.Update(ctx, models.KindAppointment, appt.ID, appt); err != nil {
		// Undo the order so a retried conversion does not duplicate it.
		if delErr := s.repo.Delete(ctx, models.KindWorkOrder, created.RecordID()); delErr != nil {
			s.log.Error("orphan work order left by failed conversion",
				zap.Int64("order", created.RecordID()), zap.Error(delErr))
		}
		return nil, err
	}
	return created.(*models.WorkOrder), nil
}

// Dashboard computes the summary over the current stored state.
func (s *Service) Dashboard(ctx context.Context) (dashboard.Summary, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return dashboard.Summary{}, err
	}
	return dashboard.Summarize(snap, time.Now()), nil
}

// AnnualReport computes the financial report for a year.
func (s *Service) AnnualReport(ctx context.Context, year int) (dashboard.AnnualReport, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return dashboard.AnnualReport{}, err
	}
	return dashboard.Annual(snap, year), nil
}

// Snapshot exposes the full stored state, used by the export endpoints for
// cross-collection lookups.
func (s *Service) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	return s.repo.Snapshot(ctx)
}

func (s *Service) restock(ctx context.Context, p *models.Purchase) error {
	rec, err := s.repo.Get(ctx, models.KindPart, p.PartID)
	if err != nil {
		return err
	}
	part := rec.(*models.Part)
	part.StockQuantity += p.Quantity
	_, err = s.repo.Update(ctx, models.KindPart, part.ID, part)
	return err
}

func applyCreateDefaults(rec models.Record) {
	switch r := rec.(type) {
	case *models.WorkOrder:
		if r.Status == "" {
			r.Status = models.OrderOpen
		}
		if r.OpenedAt == "" {
			r.OpenedAt = time.Now().Format("2006-01-02")
		}
		if r.Services == nil {
			r.Services = []models.WorkOrderService{}
		}
		if r.Parts == nil {
			r.Parts = []models.WorkOrderPart{}
		}
		r.TotalValue = r.ComputeTotal()
	case *models.Appointment:
		if r.Status == "" {
			r.Status = models.AppointmentScheduled
		}
	case *models.Tool:
		if r.Status == "" {
			r.Status = models.ToolAvailable
		}
	}
}

func checkTransition(existing, updated models.Record) error {
	switch from := existing.(type) {
	case *models.WorkOrder:
		to, ok := updated.(*models.WorkOrder)
		if !ok {
			return errors.New("record kind mismatch")
		}
		if !models.CanTransitionOrder(from.Status, to.Status) {
			return fmt.Errorf("invalid work order status transition: %s -> %s", from.Status, to.Status)
		}
	case *models.Appointment:
		to, ok := updated.(*models.Appointment)
		if !ok {
			return errors.New("record kind mismatch")
		}
		if !models.CanTransitionAppointment(from.Status, to.Status) {
			return fmt.Errorf("invalid appointment status transition: %s -> %s", from.Status, to.Status)
		}
	}
	return nil
}
