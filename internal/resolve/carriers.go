package resolve

import (
	"fare_normalizer/internal/sanitize"
	"fare_normalizer/internal/tables"
)

// Carriers extracts the deduplicated carrier table. All large-carrier
// codes are scanned first as Legacy, then all low-cost codes as
// Low-Cost; dedup by code keeps the first occurrence in that
// concatenation order, so a code present in both groups stays Legacy.
// Carrier ids are assigned sequentially from 1 in survival order.
func Carriers(records []sanitize.Record) []tables.Carrier {
	seen := make(map[string]bool)
	var out []tables.Carrier

	add := func(code, carrierType string) {
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		out = append(out, tables.Carrier{
			CarrierID:   len(out) + 1,
			CarrierCode: code,
			CarrierType: carrierType,
		})
	}

	for _, rec := range records {
		add(rec.CarrierLarge, tables.CarrierLegacy)
	}
	for _, rec := range records {
		add(rec.CarrierLow, tables.CarrierLowCost)
	}
	return out
}
