package models

import "fmt"

// WorkOrderStatus is the lifecycle state of a work order.
type WorkOrderStatus string

const (
	OrderOpen          WorkOrderStatus = "open"
	OrderInProgress    WorkOrderStatus = "in_progress"
	OrderAwaitingParts WorkOrderStatus = "awaiting_parts"
	OrderCompleted     WorkOrderStatus = "completed"
	OrderCancelled     WorkOrderStatus = "cancelled"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentInService AppointmentStatus = "in_service"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// ToolStatus tracks shop equipment availability.
type ToolStatus string

const (
	ToolAvailable   ToolStatus = "available"
	ToolInUse       ToolStatus = "in_use"
	ToolMaintenance ToolStatus = "maintenance"
)

// orderTransitions configures the allowed work-order status flow as a
// directed graph. Completed and cancelled are terminal.
var orderTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	OrderOpen:          {OrderInProgress, OrderAwaitingParts, OrderCancelled},
	OrderInProgress:    {OrderAwaitingParts, OrderCompleted, OrderCancelled},
	OrderAwaitingParts: {OrderInProgress, OrderCompleted, OrderCancelled},
	OrderCompleted:     {},
	OrderCancelled:     {},
}

// appointmentTransitions configures the allowed appointment status flow.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled: {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentInService, AppointmentCancelled},
	AppointmentInService: {AppointmentCompleted, AppointmentCancelled},
	AppointmentCompleted: {},
	AppointmentCancelled: {},
}

// CanTransitionOrder reports whether from -> to is an allowed work-order
// status change. A no-op transition is always allowed.
func CanTransitionOrder(from, to WorkOrderStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := orderTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionAppointment reports whether from -> to is an allowed
// appointment status change.
func CanTransitionAppointment(from, to AppointmentStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := appointmentTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyOrderTransition changes an order's status and stamps the closing date
// when the order reaches a terminal state. Call only after validating the
// move with CanTransitionOrder or let the error reject it.
func ApplyOrderTransition(o *WorkOrder, to WorkOrderStatus, closedAt string) error {
	if o == nil {
		return fmt.Errorf("work order is nil")
	}
	if !CanTransitionOrder(o.Status, to) {
		return fmt.Errorf("invalid work order status transition: %s -> %s", o.Status, to)
	}
	o.Status = to
	if (to == OrderCompleted || to == OrderCancelled) && o.ClosedAt == "" {
		o.ClosedAt = closedAt
	}
	return nil
}

// Open reports whether the order still counts as open on the dashboard.
func (o *WorkOrder) Open() bool {
	return o.Status != OrderCompleted && o.Status != OrderCancelled
}
