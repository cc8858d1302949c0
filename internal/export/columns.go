package export

import "github.com/goelzer/oficina/internal/models"

// Columns returns the export layout for a kind, or nil when the kind has no
// CSV export.
func Columns(kind models.Kind) []Column {
	switch kind {
	case models.KindCustomer:
		return []Column{
			{Title: "Nome", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Customer).Name }},
			{Title: "CPF/CNPJ", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Customer).TaxID }},
			{Title: "Telefone", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Customer).Phone }},
			{Title: "Email", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Customer).Email }},
			{Title: "Endereço", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Customer).Address }},
		}
	case models.KindVehicle:
		return []Column{
			{Title: "Placa", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Vehicle).Plate }},
			{Title: "Marca", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Vehicle).Brand }},
			{Title: "Modelo", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Vehicle).Model }},
			{Title: "Ano", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Vehicle).Year }},
			{Title: "Cor", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Vehicle).Color }},
			{Title: "KM", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Vehicle).Odometer }},
			{Title: "Cliente", Value: func(r models.Record, snap *models.Snapshot) any {
				return customerName(snap, r.(*models.Vehicle).CustomerID)
			}},
		}
	case models.KindService:
		return []Column{
			{Title: "Descrição", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Service).Description }},
			{Title: "Categoria", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Service).Category }},
			{Title: "Valor Mão de Obra", Format: Currency, Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Service).LaborValue }},
			{Title: "Tempo Estimado", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Service).EstimatedTime }},
		}
	case models.KindPart:
		return []Column{
			{Title: "Código", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Part).Code }},
			{Title: "Descrição", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Part).Description }},
			{Title: "Fornecedor", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Part).Supplier }},
			{Title: "Custo Unitário", Format: Currency, Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Part).UnitCost }},
			{Title: "Preço Venda", Format: Currency, Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Part).SalePrice }},
			{Title: "Estoque", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Part).StockQuantity }},
			{Title: "Estoque Mínimo", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Part).MinStockQuantity }},
			{Title: "Margem (%)", Format: Percent, Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.Part).Margin() }},
		}
	case models.KindWorkOrder:
		return []Column{
			{Title: "Número", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.WorkOrder).ID }},
			{Title: "Cliente", Value: func(r models.Record, snap *models.Snapshot) any {
				return customerName(snap, r.(*models.WorkOrder).CustomerID)
			}},
			{Title: "Veículo", Value: func(r models.Record, snap *models.Snapshot) any {
				if v := snap.VehicleByID(r.(*models.WorkOrder).VehicleID); v != nil {
					return v.Plate
				}
				return "Veículo não encontrado"
			}},
			{Title: "Abertura", Format: Date, Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.WorkOrder).OpenedAt }},
			{Title: "Status", Value: func(r models.Record, _ *models.Snapshot) any { return string(r.(*models.WorkOrder).Status) }},
			{Title: "Total", Format: Currency, Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.WorkOrder).TotalValue }},
		}
	case models.KindMovement:
		return []Column{
			{Title: "Data", Format: Date, Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.FinancialMovement).Date }},
			{Title: "Tipo", Value: func(r models.Record, _ *models.Snapshot) any { return string(r.(*models.FinancialMovement).Type) }},
			{Title: "Categoria", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.FinancialMovement).Category }},
			{Title: "Descrição", Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.FinancialMovement).Description }},
			{Title: "Valor", Format: Currency, Value: func(r models.Record, _ *models.Snapshot) any { return r.(*models.FinancialMovement).Value }},
		}
	}
	return nil
}

func customerName(snap *models.Snapshot, id int64) string {
	if c := snap.CustomerByID(id); c != nil {
		return c.Name
	}
	return "Cliente não encontrado"
}
