package layout

import (
	"fmt"
	"strings"

	"github.com/tany002/bhkinterior.com/internal/models"
)

// DefaultRoomHeight is the ceiling height used for generated scenes.
const DefaultRoomHeight = 2.7

const (
	defaultBlockHeight = 0.8
	defaultBlockColor  = "#cccccc"
	defaultMaterialID  = "default"
)

// blockStyle picks a box height and base colour from a free-text item type.
func blockStyle(itemType string) (height float64, color string) {
	t := strings.ToLower(itemType)
	switch {
	case strings.Contains(t, "sofa"):
		return 0.8, defaultBlockColor
	case strings.Contains(t, "table"):
		return 0.75, defaultBlockColor
	case strings.Contains(t, "bed"):
		return 0.6, defaultBlockColor
	case strings.Contains(t, "wardrobe"):
		return 2.0, defaultBlockColor
	case strings.Contains(t, "tv"):
		return 0.5, "#333333"
	}
	return defaultBlockHeight, defaultBlockColor
}

// ToScene converts placements into the block layout rendered by the 3D
// viewer when no generated scene is available.
func ToScene(placements []models.FurniturePlacement, canvas Canvas) models.SceneLayout {
	scene := models.SceneLayout{
		WidthM:          canvas.Meters,
		DepthM:          canvas.Meters,
		HeightM:         DefaultRoomHeight,
		FurnitureBlocks: make([]models.FurnitureBlock, 0, len(placements)),
	}

	for i, p := range placements {
		h, color := blockStyle(p.ItemType)
		material := defaultMaterialID
		if p.Material != nil && *p.Material != "" {
			material = *p.Material
		}
		scene.FurnitureBlocks = append(scene.FurnitureBlocks, models.FurnitureBlock{
			ID:          fmt.Sprintf("block-%d", i),
			Type:        p.ItemType,
			XM:          p.XM,
			YM:          p.YM,
			WM:          p.WidthM,
			DM:          p.DepthM,
			HM:          h,
			MaterialID:  material,
			ColorHex:    color,
			RotationDeg: p.RotationDeg,
		})
	}
	return scene
}
