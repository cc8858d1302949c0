package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goelzer/oficina/internal/models"
)

func TestCPF(t *testing.T) {
	tests := []struct {
		name string
		cpf  string
		want bool
	}{
		{"valid formatted", "111.444.777-35", true},
		{"valid bare", "52998224725", true},
		{"wrong check digit", "111.444.777-30", false},
		{"all digits equal", "111.111.111-11", false},
		{"all zeros", "000.000.000-00", false},
		{"too short", "1234567890", false},
		{"too long", "123456789012", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CPF(tt.cpf))
		})
	}
}

func TestCNPJ(t *testing.T) {
	tests := []struct {
		name string
		cnpj string
		want bool
	}{
		{"valid formatted", "11.222.333/0001-81", true},
		{"valid bare", "11222333000181", true},
		{"wrong check digit", "11.222.333/0001-80", false},
		{"all digits equal", "11.111.111/1111-11", false},
		{"too short", "1122233300018", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CNPJ(tt.cnpj))
		})
	}
}

func TestPlate(t *testing.T) {
	tests := []struct {
		plate string
		want  bool
	}{
		{"ABC-1234", true},
		{"ABC1234", true},
		{"abc-1234", true},
		{"ABC1D23", true},
		{"abc1d23", true},
		{"AB-1234", false},
		{"ABCD1234", false},
		{"ABC12345", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.plate, func(t *testing.T) {
			assert.Equal(t, tt.want, Plate(tt.plate))
		})
	}
}

func TestPhone(t *testing.T) {
	assert.True(t, Phone("(11) 98765-4321"))
	assert.True(t, Phone("1187654321"))
	assert.False(t, Phone("123456789"))
	assert.False(t, Phone("123456789012"))
}

func TestISODate(t *testing.T) {
	assert.True(t, ISODate("2026-01-31"))
	assert.False(t, ISODate("31/01/2026"))
	assert.False(t, ISODate("2026-02-30"))
	assert.False(t, ISODate(""))
}

func TestCustomerAccumulatesEveryViolation(t *testing.T) {
	c := &models.Customer{
		Name:  "Jo",
		TaxID: "111.111.111-11",
		Email: "not-an-email",
		Phone: "123",
	}
	errs := Customer(c)
	require.Len(t, errs, 4)
	assert.Contains(t, errs, "name must have at least 3 characters")
	assert.Contains(t, errs, "invalid CPF")
	assert.Contains(t, errs, "invalid email")
	assert.Contains(t, errs, "invalid phone (10 to 11 digits)")
}

func TestCustomerOptionalFieldsMayBeEmpty(t *testing.T) {
	c := &models.Customer{Name: "Maria Souza"}
	assert.Empty(t, Customer(c))
}

func TestPartSalePriceFloor(t *testing.T) {
	p := &models.Part{Description: "Filtro de óleo", UnitCost: 30, SalePrice: 25}
	errs := Part(p)
	require.Len(t, errs, 1)
	assert.Equal(t, "sale price must be greater than or equal to unit cost", errs[0])

	p.SalePrice = 30
	assert.Empty(t, Part(p))
}

func TestWorkOrderRequiresLineItems(t *testing.T) {
	o := &models.WorkOrder{CustomerID: 1, VehicleID: 1, Status: models.OrderOpen}
	errs := WorkOrder(o)
	require.Len(t, errs, 1)
	assert.Equal(t, "add at least one service or one part", errs[0])

	o.Services = []models.WorkOrderService{{ServiceID: 1, Value: 100}}
	assert.Empty(t, WorkOrder(o))
}

func TestMovementRequiresPositiveValue(t *testing.T) {
	m := &models.FinancialMovement{
		Date:        "2026-01-10",
		Type:        models.MovementRevenue,
		Description: "Troca de óleo",
		Value:       0,
	}
	errs := Movement(m)
	require.Len(t, errs, 1)
	assert.Equal(t, "value must be greater than zero", errs[0])
}

func TestRecordDispatchesByKind(t *testing.T) {
	assert.Empty(t, Record(&models.Customer{Name: "João da Silva"}))
	assert.NotEmpty(t, Record(&models.Vehicle{}))
}

func TestDeleteGuardCustomer(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Customers = []*models.Customer{{ID: 1, Name: "João"}, {ID: 2, Name: "Maria"}}
	snap.Vehicles = []*models.Vehicle{{ID: 10, CustomerID: 1, Plate: "ABC-1234"}}

	reason, blocked := DeleteGuard(snap, models.KindCustomer, 1)
	assert.True(t, blocked)
	assert.Equal(t, "customer has 1 registered vehicle(s)", reason)

	_, blocked = DeleteGuard(snap, models.KindCustomer, 2)
	assert.False(t, blocked)
}

func TestDeleteGuardVehicle(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Vehicles = []*models.Vehicle{{ID: 10, CustomerID: 1}, {ID: 11, CustomerID: 1}}
	snap.WorkOrders = []*models.WorkOrder{{ID: 100, CustomerID: 1, VehicleID: 10}}
	// An appointment alone never blocks a vehicle delete.
	snap.Appointments = []*models.Appointment{{ID: 50, CustomerID: 1, VehicleID: 11}}

	_, blocked := DeleteGuard(snap, models.KindVehicle, 10)
	assert.True(t, blocked)

	_, blocked = DeleteGuard(snap, models.KindVehicle, 11)
	assert.False(t, blocked)
}

func TestDeleteGuardOtherKindsNeverBlock(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Parts = []*models.Part{{ID: 1, Description: "Vela"}}
	snap.Purchases = []*models.Purchase{{ID: 1, PartID: 1, Quantity: 2}}

	_, blocked := DeleteGuard(snap, models.KindPart, 1)
	assert.False(t, blocked)
}

func TestIntegrityIssues(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Customers = []*models.Customer{{ID: 1}, {ID: 1}}
	snap.Vehicles = []*models.Vehicle{{ID: 10, CustomerID: 99}}

	issues := IntegrityIssues(snap)
	require.Len(t, issues, 2)
	assert.Contains(t, issues, "clientes: duplicate id 1")
	assert.Contains(t, issues, "vehicle 10 references missing customer 99")
}

func TestIntegrityIssuesCleanSnapshot(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Customers = []*models.Customer{{ID: 1}}
	snap.Vehicles = []*models.Vehicle{{ID: 10, CustomerID: 1}}
	assert.Empty(t, IntegrityIssues(snap))
}
