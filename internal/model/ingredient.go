package model

// Ingredient is static reference data, typically bulk-imported from CSV.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"uniqueIndex;size:128;not null"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:64;not null"`
}
