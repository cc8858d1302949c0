// Package validate holds the pure field validators applied before any
// record reaches persistence. Validators accumulate every violated rule and
// never panic; an empty result means the record is valid.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goelzer/oficina/internal/models"
)

var (
	emailRe       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	legacyPlateRe = regexp.MustCompile(`^[A-Z]{3}-?\d{4}$`)
	mercosulRe    = regexp.MustCompile(`^[A-Z]{3}\d[A-Z]\d{2}$`)
	nonDigitRe    = regexp.MustCompile(`\D`)
)

// Digits strips everything but digits from a string.
func Digits(s string) string { return nonDigitRe.ReplaceAllString(s, "") }

// repeatedDigits reports whether every character of s equals the first one.
// Such numbers satisfy the check-digit arithmetic but are not valid ids.
func repeatedDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return len(s) > 0
}

// CPF validates an 11-digit personal tax id, including both weighted mod-11
// check digits. Numbers with all digits identical pass the length check but
// are always rejected.
func CPF(cpf string) bool {
	cpf = Digits(cpf)
	if len(cpf) != 11 {
		return false
	}
	if repeatedDigits(cpf) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(cpf[i]-'0') * (10 - i)
	}
	rest := 11 - sum%11
	d1 := rest
	if rest >= 10 {
		d1 = 0
	}
	if d1 != int(cpf[9]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(cpf[i]-'0') * (11 - i)
	}
	rest = 11 - sum%11
	d2 := rest
	if rest >= 10 {
		d2 = 0
	}
	return d2 == int(cpf[10]-'0')
}

// CNPJ validates a 14-digit organization tax id. The two check digits use
// weighted mod-11 over two different weight cycles.
func CNPJ(cnpj string) bool {
	cnpj = Digits(cnpj)
	if len(cnpj) != 14 {
		return false
	}
	if repeatedDigits(cnpj) {
		return false
	}

	if cnpjDigit(cnpj, 12) != int(cnpj[12]-'0') {
		return false
	}
	return cnpjDigit(cnpj, 13) == int(cnpj[13]-'0')
}

func cnpjDigit(cnpj string, length int) int {
	sum := 0
	pos := length - 7
	for i := 0; i < length; i++ {
		sum += int(cnpj[i]-'0') * pos
		pos--
		if pos < 2 {
			pos = 9
		}
	}
	if sum%11 < 2 {
		return 0
	}
	return 11 - sum%11
}

// TaxID accepts a CPF or CNPJ depending on digit count.
func TaxID(v string) bool {
	switch len(Digits(v)) {
	case 11:
		return CPF(v)
	case 14:
		return CNPJ(v)
	}
	return false
}

// Email checks the local@domain.tld shape.
func Email(v string) bool { return emailRe.MatchString(v) }

// Phone normalizes to digits and accepts 10 or 11 of them.
func Phone(v string) bool {
	n := len(Digits(v))
	return n >= 10 && n <= 11
}

// Plate accepts the legacy AAA-9999 and Mercosul AAA9A99 formats.
func Plate(v string) bool {
	v = strings.ReplaceAll(strings.ToUpper(v), "-", "")
	return legacyPlateRe.MatchString(v) || mercosulRe.MatchString(v)
}

// ISODate checks a YYYY-MM-DD date string.
func ISODate(v string) bool {
	_, err := time.Parse("2006-01-02", v)
	return err == nil
}

// Record runs the validator for the record's kind and returns every
// violated rule.
func Record(rec models.Record) []string {
	switch r := rec.(type) {
	case *models.Customer:
		return Customer(r)
	case *models.Vehicle:
		return Vehicle(r)
	case *models.Service:
		return Service(r)
	case *models.Part:
		return Part(r)
	case *models.Tool:
		return Tool(r)
	case *models.Appointment:
		return Appointment(r)
	case *models.WorkOrder:
		return WorkOrder(r)
	case *models.Purchase:
		return Purchase(r)
	case *models.FinancialMovement:
		return Movement(r)
	case *models.GeneralExpense:
		return Expense(r)
	}
	return []string{"unknown record kind"}
}

// Customer validates a customer record.
func Customer(c *models.Customer) []string {
	var errs []string
	name := strings.TrimSpace(c.Name)
	if name == "" {
		errs = append(errs, "name is required")
	} else if len(name) < 3 {
		errs = append(errs, "name must have at least 3 characters")
	}
	if v := strings.TrimSpace(c.TaxID); v != "" {
		switch len(Digits(v)) {
		case 11:
			if !CPF(v) {
				errs = append(errs, "invalid CPF")
			}
		case 14:
			if !CNPJ(v) {
				errs = append(errs, "invalid CNPJ")
			}
		default:
			errs = append(errs, "tax id must have 11 or 14 digits")
		}
	}
	if v := strings.TrimSpace(c.Email); v != "" && !Email(v) {
		errs = append(errs, "invalid email")
	}
	if v := strings.TrimSpace(c.Phone); v != "" && !Phone(v) {
		errs = append(errs, "invalid phone (10 to 11 digits)")
	}
	return errs
}

// Vehicle validates a vehicle record.
func Vehicle(v *models.Vehicle) []string {
	var errs []string
	if v.CustomerID == 0 {
		errs = append(errs, "customer is required")
	}
	if strings.TrimSpace(v.Plate) == "" {
		errs = append(errs, "plate is required")
	} else if !Plate(v.Plate) {
		errs = append(errs, "invalid plate (expected AAA-9999 or AAA9A99)")
	}
	if strings.TrimSpace(v.Brand) == "" {
		errs = append(errs, "brand is required")
	}
	if strings.TrimSpace(v.Model) == "" {
		errs = append(errs, "model is required")
	}
	if v.Year != 0 {
		max := time.Now().Year() + 1
		if v.Year < 1900 || v.Year > max {
			errs = append(errs, fmt.Sprintf("invalid year (must be between 1900 and %d)", max))
		}
	}
	if v.Odometer < 0 {
		errs = append(errs, "odometer must not be negative")
	}
	return errs
}

// Service validates a service record.
func Service(s *models.Service) []string {
	var errs []string
	if strings.TrimSpace(s.Description) == "" {
		errs = append(errs, "description is required")
	}
	if s.LaborValue < 0 {
		errs = append(errs, "labor value must not be negative")
	}
	return errs
}

// Part validates a part record, including the sale-price floor.
func Part(p *models.Part) []string {
	var errs []string
	if strings.TrimSpace(p.Description) == "" {
		errs = append(errs, "description is required")
	}
	if p.UnitCost < 0 {
		errs = append(errs, "unit cost must not be negative")
	}
	if p.SalePrice < 0 {
		errs = append(errs, "sale price must not be negative")
	}
	if p.SalePrice >= 0 && p.UnitCost >= 0 && p.SalePrice < p.UnitCost {
		errs = append(errs, "sale price must be greater than or equal to unit cost")
	}
	if p.StockQuantity < 0 {
		errs = append(errs, "stock quantity must not be negative")
	}
	if p.MinStockQuantity < 0 {
		errs = append(errs, "minimum stock must not be negative")
	}
	return errs
}

// Tool validates a tool record.
func Tool(t *models.Tool) []string {
	var errs []string
	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, "description is required")
	}
	switch t.Status {
	case models.ToolAvailable, models.ToolInUse, models.ToolMaintenance:
	default:
		errs = append(errs, "invalid tool status")
	}
	if t.AcquisitionValue < 0 {
		errs = append(errs, "acquisition value must not be negative")
	}
	return errs
}

// Appointment validates an appointment record.
func Appointment(a *models.Appointment) []string {
	var errs []string
	if a.CustomerID == 0 {
		errs = append(errs, "customer is required")
	}
	if a.VehicleID == 0 {
		errs = append(errs, "vehicle is required")
	}
	if a.Date == "" {
		errs = append(errs, "date is required")
	} else if !ISODate(a.Date) {
		errs = append(errs, "invalid date (expected YYYY-MM-DD)")
	}
	switch a.Status {
	case models.AppointmentScheduled, models.AppointmentConfirmed,
		models.AppointmentInService, models.AppointmentCompleted,
		models.AppointmentCancelled:
	default:
		errs = append(errs, "invalid appointment status")
	}
	return errs
}

// WorkOrder validates a work order, requiring at least one line item.
func WorkOrder(o *models.WorkOrder) []string {
	var errs []string
	if o.CustomerID == 0 {
		errs = append(errs, "customer is required")
	}
	if o.VehicleID == 0 {
		errs = append(errs, "vehicle is required")
	}
	if len(o.Services) == 0 && len(o.Parts) == 0 {
		errs = append(errs, "add at least one service or one part")
	}
	for _, p := range o.Parts {
		if p.Quantity <= 0 {
			errs = append(errs, "part quantities must be greater than zero")
			break
		}
	}
	if o.Discount < 0 {
		errs = append(errs, "discount must not be negative")
	}
	switch o.Status {
	case models.OrderOpen, models.OrderInProgress, models.OrderAwaitingParts,
		models.OrderCompleted, models.OrderCancelled:
	default:
		errs = append(errs, "invalid work order status")
	}
	return errs
}

// Purchase validates a purchase record.
func Purchase(p *models.Purchase) []string {
	var errs []string
	if p.PartID == 0 {
		errs = append(errs, "part is required")
	}
	if p.Quantity <= 0 {
		errs = append(errs, "quantity must be greater than zero")
	}
	if p.UnitCost < 0 {
		errs = append(errs, "unit cost must not be negative")
	}
	if p.Date == "" {
		errs = append(errs, "date is required")
	}
	return errs
}

// Movement validates a financial movement record.
func Movement(m *models.FinancialMovement) []string {
	var errs []string
	if m.Date == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(m.Description) == "" {
		errs = append(errs, "description is required")
	}
	if m.Type != models.MovementRevenue && m.Type != models.MovementExpense {
		errs = append(errs, "type must be revenue or expense")
	}
	if m.Value <= 0 {
		errs = append(errs, "value must be greater than zero")
	}
	return errs
}

// Expense validates a general expense record.
func Expense(e *models.GeneralExpense) []string {
	var errs []string
	if e.Date == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(e.Description) == "" {
		errs = append(errs, "description is required")
	}
	if e.Value <= 0 {
		errs = append(errs, "value must be greater than zero")
	}
	return errs
}
