package seed

import "github.com/gnr-surgicals/inventory/internal/equipment/domain"

func counts(available, inUse, maintenance int) domain.StatusCounts {
	return domain.StatusCounts{Available: available, InUse: inUse, Maintenance: maintenance}
}

// Samples is the demo catalogue loaded by `inventoryctl seed`.
func Samples() []domain.Input {
	return []domain.Input{
		{Name: "Surgical Scissors", SKU: "SS001", Category: "Instruments", Quantity: 25, CostPerUnit: 45.99,
			StatusCounts: counts(18, 5, 2), Location: "Operating Room A", Notes: "Curved, 6-inch stainless steel"},
		{Name: "Disposable Gloves (Box)", SKU: "GL100", Category: "Consumables", Quantity: 150, CostPerUnit: 12.50,
			StatusCounts: counts(120, 30, 0), Location: "Storage Room B", Notes: "Latex-free, size L, 100 pieces per box"},
		{Name: "Pulse Oximeter", SKU: "PX300", Category: "Diagnostic", Quantity: 8, CostPerUnit: 299.99,
			StatusCounts: counts(5, 2, 1), Location: "Ward 1", Notes: "Digital display, finger clip type"},
		{Name: "Surgical Forceps", SKU: "SF002", Category: "Instruments", Quantity: 30, CostPerUnit: 38.75,
			StatusCounts: counts(22, 6, 2), Location: "Operating Room B", Notes: "Straight, 5-inch, non-serrated"},
		{Name: "Blood Pressure Monitor", SKU: "BP200", Category: "Diagnostic", Quantity: 12, CostPerUnit: 185.00,
			StatusCounts: counts(8, 3, 1), Location: "Outpatient Clinic", Notes: "Digital, automatic inflation"},
		{Name: "Surgical Masks (Box)", SKU: "SM050", Category: "Consumables", Quantity: 200, CostPerUnit: 8.99,
			StatusCounts: counts(180, 20, 0), Location: "Storage Room A", Notes: "3-ply, fluid resistant, 50 pieces per box"},
		{Name: "Patient Examination Bed", SKU: "EB400", Category: "Furniture", Quantity: 6, CostPerUnit: 1250.00,
			StatusCounts: counts(4, 2, 0), Location: "Examination Rooms", Notes: "Adjustable height, with stirrups"},
		{Name: "Thermometer (Digital)", SKU: "TH150", Category: "Diagnostic", Quantity: 20, CostPerUnit: 25.50,
			StatusCounts: counts(15, 4, 1), Location: "General Storage", Notes: "Fast reading, fever alert"},
		{Name: "IV Stand", SKU: "IV500", Category: "Furniture", Quantity: 15, CostPerUnit: 89.99,
			StatusCounts: counts(10, 4, 1), Location: "Patient Rooms", Notes: "4-hook, adjustable height, wheeled base"},
		{Name: "Suture Kit", SKU: "SK030", Category: "Instruments", Quantity: 40, CostPerUnit: 15.75,
			StatusCounts: counts(32, 6, 2), Location: "Surgery Prep", Notes: "Complete kit with needle holder and scissors"},
		{Name: "ECG Machine", SKU: "ECG600", Category: "Electronics", Quantity: 3, CostPerUnit: 2500.00,
			StatusCounts: counts(2, 1, 0), Location: "Cardiology Department", Notes: "12-lead, with printer and interpretation"},
		{Name: "Gauze Pads (Pack)", SKU: "GP080", Category: "Consumables", Quantity: 100, CostPerUnit: 6.25,
			StatusCounts: counts(85, 15, 0), Location: "Nursing Station", Notes: "4x4 inch, sterile, 10 pieces per pack"},
	}
}
