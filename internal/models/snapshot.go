package models

// Snapshot is the full in-memory state of the shop: one ordered collection
// per kind. Its JSON layout matches the persisted blob, so a snapshot can be
// stored and reloaded as a single document.
type Snapshot struct {
	Customers    []*Customer          `json:"clientes"`
	Vehicles     []*Vehicle           `json:"veiculos"`
	Services     []*Service           `json:"servicos"`
	Parts        []*Part              `json:"pecas"`
	Tools        []*Tool              `json:"ferramentas"`
	Appointments []*Appointment       `json:"agendamentos"`
	WorkOrders   []*WorkOrder         `json:"ordens"`
	Purchases    []*Purchase          `json:"compras"`
	Movements    []*FinancialMovement `json:"movimentacoes"`
	Expenses     []*GeneralExpense    `json:"despesasGerais"`
}

// NewSnapshot returns a snapshot with every collection empty.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize replaces nil collections with empty ones. Older persisted blobs
// may lack collections added later; loading must default them rather than
// fail.
func (s *Snapshot) Normalize() {
	if s.Customers == nil {
		s.Customers = []*Customer{}
	}
	if s.Vehicles == nil {
		s.Vehicles = []*Vehicle{}
	}
	if s.Services == nil {
		s.Services = []*Service{}
	}
	if s.Parts == nil {
		s.Parts = []*Part{}
	}
	if s.Tools == nil {
		s.Tools = []*Tool{}
	}
	if s.Appointments == nil {
		s.Appointments = []*Appointment{}
	}
	if s.WorkOrders == nil {
		s.WorkOrders = []*WorkOrder{}
	}
	if s.Purchases == nil {
		s.Purchases = []*Purchase{}
	}
	if s.Movements == nil {
		s.Movements = []*FinancialMovement{}
	}
	if s.Expenses == nil {
		s.Expenses = []*GeneralExpense{}
	}
}

// Records returns the collection for a kind as a generic record slice,
// preserving order.
func (s *Snapshot) Records(kind Kind) []Record {
	switch kind {
	case KindCustomer:
		return toRecords(s.Customers)
	case KindVehicle:
		return toRecords(s.Vehicles)
	case KindService:
		return toRecords(s.Services)
	case KindPart:
		return toRecords(s.Parts)
	case KindTool:
		return toRecords(s.Tools)
	case KindAppointment:
		return toRecords(s.Appointments)
	case KindWorkOrder:
		return toRecords(s.WorkOrders)
	case KindPurchase:
		return toRecords(s.Purchases)
	case KindMovement:
		return toRecords(s.Movements)
	case KindExpense:
		return toRecords(s.Expenses)
	}
	return nil
}

// Replace swaps the collection for a kind. Records of the wrong concrete
// type are silently skipped; callers obtain records from Decode, which
// guarantees the types line up.
func (s *Snapshot) Replace(kind Kind, recs []Record) {
	switch kind {
	case KindCustomer:
		s.Customers = fromRecords[*Customer](recs)
	case KindVehicle:
		s.Vehicles = fromRecords[*Vehicle](recs)
	case KindService:
		s.Services = fromRecords[*Service](recs)
	case KindPart:
		s.Parts = fromRecords[*Part](recs)
	case KindTool:
		s.Tools = fromRecords[*Tool](recs)
	case KindAppointment:
		s.Appointments = fromRecords[*Appointment](recs)
	case KindWorkOrder:
		s.WorkOrders = fromRecords[*WorkOrder](recs)
	case KindPurchase:
		s.Purchases = fromRecords[*Purchase](recs)
	case KindMovement:
		s.Movements = fromRecords[*FinancialMovement](recs)
	case KindExpense:
		s.Expenses = fromRecords[*GeneralExpense](recs)
	}
}

// Find returns the record with the given id within a kind, or nil.
func (s *Snapshot) Find(kind Kind, id int64) Record {
	for _, r := range s.Records(kind) {
		if r.RecordID() == id {
			return r
		}
	}
	return nil
}

// CustomerByID resolves a customer id, returning nil when absent.
func (s *Snapshot) CustomerByID(id int64) *Customer {
	for _, c := range s.Customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// VehicleByID resolves a vehicle id, returning nil when absent.
func (s *Snapshot) VehicleByID(id int64) *Vehicle {
	for _, v := range s.Vehicles {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// PartByID resolves a part id, returning nil when absent.
func (s *Snapshot) PartByID(id int64) *Part {
	for _, p := range s.Parts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ServiceByID resolves a service id, returning nil when absent.
func (s *Snapshot) ServiceByID(id int64) *Service {
	for _, sv := range s.Services {
		if sv.ID == id {
			return sv
		}
	}
	return nil
}

func toRecords[T Record](in []T) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		out = append(out, r)
	}
	return out
}

func fromRecords[T Record](in []Record) []T {
	out := make([]T, 0, len(in))
	for _, r := range in {
		if t, ok := r.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
