package config

import (
	"os"
	"strings"
)

// CropSpec is the reference data used when an imported crop name has no Crop
// row yet: short code, pounds per bushel, and the base moisture percent dry
// bushels are corrected to.
type CropSpec struct {
	Code            string
	WeightPerBushel float64
	BaseMC          float64
}

// Ingestion bundles every tunable the importers need, so nothing in the
// pipeline reads package-level mutable state. Build one with
// DefaultIngestion() and override per environment or per test.
type Ingestion struct {
	// Folder scanned by batch runs for *.grc export files.
	Folder string

	DefaultBinCode  string
	DefaultCartCode string
	DefaultContact  string
	DefaultManager  string

	// AllowCropInsert controls whether an unknown crop name may be created
	// from CropSpecs. When false, any crop missing from the Crop table
	// rejects the file.
	AllowCropInsert bool
	CropSpecs       map[string]CropSpec

	// MoistureFields lists load-record columns tried in order for moisture.
	// The Comment fallback is a data-entry convention of the source
	// equipment, hence configurable rather than hard-coded.
	MoistureFields []string
}

func DefaultIngestion() Ingestion {
	cfg := Ingestion{
		Folder:          envOr("GRC_FOLDER", "./data/grc"),
		DefaultBinCode:  "UNKNOWN",
		DefaultCartCode: "UNKNOWN",
		DefaultContact:  "Unknown",
		DefaultManager:  "Unknown",
		AllowCropInsert: true,
		CropSpecs: map[string]CropSpec{
			"Soybean":            {Code: "B", WeightPerBushel: 60.00, BaseMC: 13.0},
			"Corn":               {Code: "C", WeightPerBushel: 56.00, BaseMC: 15.5},
			"High Moisture Corn": {Code: "HMC", WeightPerBushel: 56.00, BaseMC: 15.5},
			"Milo":               {Code: "M", WeightPerBushel: 56.00, BaseMC: 14.0},
			"Wheat":              {Code: "W", WeightPerBushel: 60.00, BaseMC: 13.5},
		},
		MoistureFields: []string{"MC", "Comment"},
	}

	if v := strings.TrimSpace(os.Getenv("MOISTURE_FIELDS")); v != "" {
		cfg.MoistureFields = nil
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				cfg.MoistureFields = append(cfg.MoistureFields, p)
			}
		}
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_CROP_INSERT"))); v == "0" || v == "false" || v == "no" {
		cfg.AllowCropInsert = false
	}
	return cfg
}
