package render

import (
	"fmt"
	"strconv"

	"github.com/goelzer/oficina/internal/export"
	"github.com/goelzer/oficina/internal/models"
)

// Columns returns the declared table header for a kind.
func Columns(kind models.Kind) []string {
	switch kind {
	case models.KindCustomer:
		return []string{"Nome", "CPF/CNPJ", "Telefone", "Email", "Endereço"}
	case models.KindVehicle:
		return []string{"Placa", "Marca", "Modelo", "Ano", "Cor", "KM", "Cliente"}
	case models.KindService:
		return []string{"Descrição", "Categoria", "Mão de Obra", "Tempo Estimado"}
	case models.KindPart:
		return []string{"Código", "Descrição", "Fornecedor", "Custo", "Venda", "Estoque", "Mínimo"}
	case models.KindTool:
		return []string{"Descrição", "Marca", "Nº Série", "Aquisição", "Valor", "Status"}
	case models.KindAppointment:
		return []string{"Data", "Hora", "Cliente", "Veículo", "Serviços", "Status"}
	case models.KindWorkOrder:
		return []string{"Número", "Cliente", "Veículo", "Abertura", "Status", "Total"}
	case models.KindPurchase:
		return []string{"Data", "Peça", "Fornecedor", "Quantidade", "Custo Unitário"}
	case models.KindMovement:
		return []string{"Data", "Tipo", "Categoria", "Descrição", "Valor"}
	case models.KindExpense:
		return []string{"Data", "Categoria", "Descrição", "Valor"}
	}
	return nil
}

// Row returns the row template for a kind. Templates are pure: they read
// the snapshot for lookups and never mutate it.
func Row(kind models.Kind) RowFunc {
	switch kind {
	case models.KindCustomer:
		return customerRow
	case models.KindVehicle:
		return vehicleRow
	case models.KindService:
		return serviceRow
	case models.KindPart:
		return partRow
	case models.KindTool:
		return toolRow
	case models.KindAppointment:
		return appointmentRow
	case models.KindWorkOrder:
		return workOrderRow
	case models.KindPurchase:
		return purchaseRow
	case models.KindMovement:
		return movementRow
	case models.KindExpense:
		return expenseRow
	}
	return nil
}

func customerRow(rec models.Record, _ *models.Snapshot) []string {
	c := rec.(*models.Customer)
	return []string{c.Name, c.TaxID, c.Phone, c.Email, c.Address}
}

func vehicleRow(rec models.Record, snap *models.Snapshot) []string {
	v := rec.(*models.Vehicle)
	return []string{
		v.Plate, v.Brand, v.Model, strconv.Itoa(v.Year), v.Color,
		strconv.FormatInt(v.Odometer, 10), lookupCustomer(snap, v.CustomerID),
	}
}

func serviceRow(rec models.Record, _ *models.Snapshot) []string {
	s := rec.(*models.Service)
	return []string{s.Description, s.Category, export.FormatCurrency(s.LaborValue), s.EstimatedTime}
}

func partRow(rec models.Record, _ *models.Snapshot) []string {
	p := rec.(*models.Part)
	stock := strconv.Itoa(p.StockQuantity)
	if p.LowStock() {
		stock += " ⚠"
	}
	return []string{
		p.Code, p.Description, p.Supplier,
		export.FormatCurrency(p.UnitCost), export.FormatCurrency(p.SalePrice),
		stock, strconv.Itoa(p.MinStockQuantity),
	}
}

func toolRow(rec models.Record, _ *models.Snapshot) []string {
	t := rec.(*models.Tool)
	return []string{
		t.Description, t.Brand, t.SerialNumber, export.FormatDate(t.AcquisitionDate),
		export.FormatCurrency(t.AcquisitionValue), string(t.Status),
	}
}

func appointmentRow(rec models.Record, snap *models.Snapshot) []string {
	a := rec.(*models.Appointment)
	return []string{
		export.FormatDate(a.Date), a.Time,
		lookupCustomer(snap, a.CustomerID), lookupVehicle(snap, a.VehicleID),
		a.ServicesText, string(a.Status),
	}
}

func workOrderRow(rec models.Record, snap *models.Snapshot) []string {
	o := rec.(*models.WorkOrder)
	return []string{
		fmt.Sprintf("OS-%d", o.ID),
		lookupCustomer(snap, o.CustomerID), lookupVehicle(snap, o.VehicleID),
		export.FormatDate(o.OpenedAt), string(o.Status),
		export.FormatCurrency(o.TotalValue),
	}
}

func purchaseRow(rec models.Record, snap *models.Snapshot) []string {
	p := rec.(*models.Purchase)
	part := "Peça não encontrada"
	if pt := snap.PartByID(p.PartID); pt != nil {
		part = pt.Description
	}
	return []string{
		export.FormatDate(p.Date), part, p.Supplier,
		strconv.Itoa(p.Quantity), export.FormatCurrency(p.UnitCost),
	}
}

func movementRow(rec models.Record, _ *models.Snapshot) []string {
	m := rec.(*models.FinancialMovement)
	return []string{
		export.FormatDate(m.Date), string(m.Type), m.Category,
		m.Description, export.FormatCurrency(m.Value),
	}
}

func expenseRow(rec models.Record, _ *models.Snapshot) []string {
	e := rec.(*models.GeneralExpense)
	return []string{
		export.FormatDate(e.Date), e.Category, e.Description,
		export.FormatCurrency(e.Value),
	}
}

func lookupCustomer(snap *models.Snapshot, id int64) string {
	if c := snap.CustomerByID(id); c != nil {
		return c.Name
	}
	return "Cliente não encontrado"
}

func lookupVehicle(snap *models.Snapshot, id int64) string {
	if v := snap.VehicleByID(id); v != nil {
		return v.Plate
	}
	return "Veículo não encontrado"
}
