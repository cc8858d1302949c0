// Package models defines the record types managed by the shop, the wire
// names used by the HTTP API, and the snapshot aggregate that holds one
// ordered collection per record kind.
//
// Dates are carried as ISO strings (YYYY-MM-DD) end to end; the export layer
// reformats them for display.
package models

import (
	"encoding/json"
	"fmt"
)

// Kind identifies one record collection. The values are the path segments of
// the HTTP API (GET /api/{kind}) and the top-level keys of the persisted
// snapshot blob.
type Kind string

const (
	KindCustomer    Kind = "clientes"
	KindVehicle     Kind = "veiculos"
	KindService     Kind = "servicos"
	KindPart        Kind = "pecas"
	KindTool        Kind = "ferramentas"
	KindAppointment Kind = "agendamentos"
	KindWorkOrder   Kind = "ordens"
	KindPurchase    Kind = "compras"
	KindMovement    Kind = "movimentacoes"
	KindExpense     Kind = "despesasGerais"
)

// Kinds returns every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindCustomer, KindVehicle, KindService, KindPart, KindTool,
		KindAppointment, KindWorkOrder, KindPurchase, KindMovement, KindExpense,
	}
}

// ParseKind maps a path segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Record is implemented by every managed record type. Ids are assigned by
// the persistence collaborator at creation time, never by callers.
type Record interface {
	RecordID() int64
	SetRecordID(id int64)
	RecordKind() Kind
}

// Customer is a person or company that owns vehicles serviced by the shop.
type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"taxId,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

func (c *Customer) RecordID() int64      { return c.ID }
func (c *Customer) SetRecordID(id int64) { c.ID = id }
func (c *Customer) RecordKind() Kind     { return KindCustomer }

// Vehicle belongs to exactly one customer.
type Vehicle struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	Plate      string `json:"plate"`
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	Year       int    `json:"year,omitempty"`
	Color      string `json:"color,omitempty"`
	Odometer   int64  `json:"odometer,omitempty"`
}

func (v *Vehicle) RecordID() int64      { return v.ID }
func (v *Vehicle) SetRecordID(id int64) { v.ID = id }
func (v *Vehicle) RecordKind() Kind     { return KindVehicle }

// Service is a labor item offered by the shop.
type Service struct {
	ID            int64   `json:"id"`
	Description   string  `json:"description"`
	Category      string  `json:"category,omitempty"`
	LaborValue    float64 `json:"laborValue"`
	EstimatedTime string  `json:"estimatedTime,omitempty"`
}

func (s *Service) RecordID() int64      { return s.ID }
func (s *Service) SetRecordID(id int64) { s.ID = id }
func (s *Service) RecordKind() Kind     { return KindService }

// Part is a stocked item sold on work orders.
type Part struct {
	ID               int64   `json:"id"`
	Code             string  `json:"code,omitempty"`
	Description      string  `json:"description"`
	Supplier         string  `json:"supplier,omitempty"`
	UnitCost         float64 `json:"unitCost"`
	SalePrice        float64 `json:"salePrice"`
	StockQuantity    int     `json:"stockQuantity"`
	MinStockQuantity int     `json:"minStockQuantity"`
}

func (p *Part) RecordID() int64      { return p.ID }
func (p *Part) SetRecordID(id int64) { p.ID = id }
func (p *Part) RecordKind() Kind     { return KindPart }

// LowStock reports whether the part is at or below its minimum threshold.
func (p *Part) LowStock() bool { return p.StockQuantity <= p.MinStockQuantity }

// Margin returns the profit margin percentage over cost, or 0 when the cost
// is zero.
func (p *Part) Margin() float64 {
	if p.UnitCost == 0 {
		return 0
	}
	return (p.SalePrice - p.UnitCost) / p.UnitCost * 100
}

// Tool is a piece of shop equipment.
type Tool struct {
	ID               int64      `json:"id"`
	Description      string     `json:"description"`
	Brand            string     `json:"brand,omitempty"`
	SerialNumber     string     `json:"serialNumber,omitempty"`
	AcquisitionDate  string     `json:"acquisitionDate,omitempty"`
	AcquisitionValue float64    `json:"acquisitionValue,omitempty"`
	Status           ToolStatus `json:"status"`
}

func (t *Tool) RecordID() int64      { return t.ID }
func (t *Tool) SetRecordID(id int64) { t.ID = id }
func (t *Tool) RecordKind() Kind     { return KindTool }

// Appointment is a scheduled visit that may later become a work order.
type Appointment struct {
	ID           int64             `json:"id"`
	CustomerID   int64             `json:"customerId"`
	VehicleID    int64             `json:"vehicleId"`
	Date         string            `json:"date"`
	Time         string            `json:"time,omitempty"`
	ServicesText string            `json:"servicesText,omitempty"`
	Status       AppointmentStatus `json:"status"`
}

func (a *Appointment) RecordID() int64      { return a.ID }
func (a *Appointment) SetRecordID(id int64) { a.ID = id }
func (a *Appointment) RecordKind() Kind     { return KindAppointment }

// WorkOrderService is a labor line item on a work order.
type WorkOrderService struct {
	ServiceID int64   `json:"serviceId"`
	Value     float64 `json:"value"`
}

// WorkOrderPart is a part line item on a work order.
type WorkOrderPart struct {
	PartID    int64   `json:"partId"`
	Quantity  int     `json:"quantity"`
	UnitValue float64 `json:"unitValue"`
}

// WorkOrder is a billable job tying a customer, a vehicle, and a set of
// service and part line items together.
type WorkOrder struct {
	ID         int64              `json:"id"`
	CustomerID int64              `json:"customerId"`
	VehicleID  int64              `json:"vehicleId"`
	OpenedAt   string             `json:"openedAt"`
	ClosedAt   string             `json:"closedAt,omitempty"`
	Status     WorkOrderStatus    `json:"status"`
	Services   []WorkOrderService `json:"services"`
	Parts      []WorkOrderPart    `json:"parts"`
	Discount   float64            `json:"discount,omitempty"`
	TotalValue float64            `json:"totalValue"`
}

func (o *WorkOrder) RecordID() int64      { return o.ID }
func (o *WorkOrder) SetRecordID(id int64) { o.ID = id }
func (o *WorkOrder) RecordKind() Kind     { return KindWorkOrder }

// ComputeTotal derives the order total from its line items minus the
// discount, floored at zero.
func (o *WorkOrder) ComputeTotal() float64 {
	total := 0.0
	for _, s := range o.Services {
		total += s.Value
	}
	for _, p := range o.Parts {
		total += p.UnitValue * float64(p.Quantity)
	}
	total -= o.Discount
	if total < 0 {
		total = 0
	}
	return total
}

// Purchase records stock bought from a supplier. Creating one increments the
// referenced part's stock.
type Purchase struct {
	ID       int64   `json:"id"`
	PartID   int64   `json:"partId"`
	Supplier string  `json:"supplier,omitempty"`
	Quantity int     `json:"quantity"`
	UnitCost float64 `json:"unitCost"`
	Date     string  `json:"date"`
}

func (p *Purchase) RecordID() int64      { return p.ID }
func (p *Purchase) SetRecordID(id int64) { p.ID = id }
func (p *Purchase) RecordKind() Kind     { return KindPurchase }

// MovementType discriminates financial movements.
type MovementType string

const (
	MovementRevenue MovementType = "revenue"
	MovementExpense MovementType = "expense"
)

// FinancialMovement is a dated revenue or expense entry.
type FinancialMovement struct {
	ID          int64        `json:"id"`
	Date        string       `json:"date"`
	Type        MovementType `json:"type"`
	Category    string       `json:"category,omitempty"`
	Description string       `json:"description"`
	Value       float64      `json:"value"`
}

func (m *FinancialMovement) RecordID() int64      { return m.ID }
func (m *FinancialMovement) SetRecordID(id int64) { m.ID = id }
func (m *FinancialMovement) RecordKind() Kind     { return KindMovement }

// GeneralExpense is an overhead expense outside work-order billing. It
// counts toward monthly expenses on the dashboard.
type GeneralExpense struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

func (e *GeneralExpense) RecordID() int64      { return e.ID }
func (e *GeneralExpense) SetRecordID(id int64) { e.ID = id }
func (e *GeneralExpense) RecordKind() Kind     { return KindExpense }

// New returns a zero-valued record of the given kind.
func New(kind Kind) (Record, error) {
	switch kind {
	case KindCustomer:
		return &Customer{}, nil
	case KindVehicle:
		return &Vehicle{}, nil
	case KindService:
		return &Service{}, nil
	case KindPart:
		return &Part{}, nil
	case KindTool:
		return &Tool{}, nil
	case KindAppointment:
		return &Appointment{}, nil
	case KindWorkOrder:
		return &WorkOrder{}, nil
	case KindPurchase:
		return &Purchase{}, nil
	case KindMovement:
		return &FinancialMovement{}, nil
	case KindExpense:
		return &GeneralExpense{}, nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// Decode unmarshals a single record of the given kind.
func Decode(kind Kind, data []byte) (Record, error) {
	rec, err := New(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return rec, nil
}

// DecodeList unmarshals an ordered collection of records of the given kind.
func DecodeList(kind Kind, data []byte) ([]Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", kind, err)
	}
	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		rec, err := Decode(kind, item)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
