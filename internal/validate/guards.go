package validate

import (
	"fmt"

	"github.com/goelzer/oficina/internal/models"
)

// DeleteGuard checks the referential rules that block a delete: a customer
// cannot be removed while a vehicle references it, and a vehicle cannot be
// removed while a work order references it. It returns a human-readable
// reason when the delete is blocked.
func DeleteGuard(snap *models.Snapshot, kind models.Kind, id int64) (string, bool) {
	if snap == nil {
		return "", false
	}
	switch kind {
	case models.KindCustomer:
		n := 0
		for _, v := range snap.Vehicles {
			if v.CustomerID == id {
				n++
			}
		}
		if n > 0 {
			return fmt.Sprintf("customer has %d registered vehicle(s)", n), true
		}
	case models.KindVehicle:
		n := 0
		for _, o := range snap.WorkOrders {
			if o.VehicleID == id {
				n++
			}
		}
		if n > 0 {
			return fmt.Sprintf("vehicle has %d work order(s)", n), true
		}
	}
	return "", false
}

// IntegrityIssues scans a snapshot for advisory problems: duplicate ids
// within a collection and foreign keys pointing at missing records. Issues
// are warnings only; they never block a save or a load.
func IntegrityIssues(snap *models.Snapshot) []string {
	if snap == nil {
		return nil
	}
	var issues []string

	for _, kind := range models.Kinds() {
		seen := map[int64]bool{}
		for _, r := range snap.Records(kind) {
			if seen[r.RecordID()] {
				issues = append(issues, fmt.Sprintf("%s: duplicate id %d", kind, r.RecordID()))
			}
			seen[r.RecordID()] = true
		}
	}

	for _, v := range snap.Vehicles {
		if snap.CustomerByID(v.CustomerID) == nil {
			issues = append(issues, fmt.Sprintf("vehicle %d references missing customer %d", v.ID, v.CustomerID))
		}
	}
	for _, o := range snap.WorkOrders {
		if snap.CustomerByID(o.CustomerID) == nil {
			issues = append(issues, fmt.Sprintf("work order %d references missing customer %d", o.ID, o.CustomerID))
		}
		if snap.VehicleByID(o.VehicleID) == nil {
			issues = append(issues, fmt.Sprintf("work order %d references missing vehicle %d", o.ID, o.VehicleID))
		}
	}
	for _, a := range snap.Appointments {
		if snap.CustomerByID(a.CustomerID) == nil {
			issues = append(issues, fmt.Sprintf("appointment %d references missing customer %d", a.ID, a.CustomerID))
		}
	}
	for _, p := range snap.Purchases {
		if snap.PartByID(p.PartID) == nil {
			issues = append(issues, fmt.Sprintf("purchase %d references missing part %d", p.ID, p.PartID))
		}
	}
	return issues
}
