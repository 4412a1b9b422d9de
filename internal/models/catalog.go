package models

// FurnitureTemplate is one entry of the "add furniture" palette.
type FurnitureTemplate struct {
	Label    string  `json:"label" yaml:"label"`
	WidthM   float64 `json:"widthM" yaml:"width_m"`
	DepthM   float64 `json:"depthM" yaml:"depth_m"`
	Category string  `json:"category" yaml:"category"`
}

// CatalogFile mirrors the YAML catalog format:
//
//	templates:
//	  - label: Sofa
//	    width_m: 2.2
//	    depth_m: 0.9
//	    category: Seating
type CatalogFile struct {
	Templates []FurnitureTemplate `json:"templates" yaml:"templates"`
}
