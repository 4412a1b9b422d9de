package models

// FurnitureBlock is a box primitive consumed by the 3D viewer.
type FurnitureBlock struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	XM          float64 `json:"x_m"`
	YM          float64 `json:"y_m"`
	WM          float64 `json:"w_m"`
	DM          float64 `json:"d_m"`
	HM          float64 `json:"h_m"`
	MaterialID  string  `json:"material_id"`
	ColorHex    string  `json:"color_hex"`
	RotationDeg float64 `json:"rotation_deg"`
}

// SceneLayout is the block description of a room handed to the 3D viewer.
type SceneLayout struct {
	WidthM          float64          `json:"width_m"`
	DepthM          float64          `json:"depth_m"`
	HeightM         float64          `json:"height_m"`
	FurnitureBlocks []FurnitureBlock `json:"furniture_blocks"`
}
