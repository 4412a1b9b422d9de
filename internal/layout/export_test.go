package layout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/tany002/bhkinterior.com/internal/models"
)

func TestToScene(t *testing.T) {
	oak := "wood"
	placements := []models.FurniturePlacement{
		{ItemType: "Sofa", XM: 2, YM: 3, WidthM: 2.2, DepthM: 0.9},
		{ItemType: "TV Unit", XM: 2, YM: 0.5, WidthM: 1.8, DepthM: 0.4, RotationDeg: 180},
		{ItemType: "Wardrobe", XM: 7, YM: 1, WidthM: 1, DepthM: 0.6, Material: &oak},
		{ItemType: "Lamp", XM: 1, YM: 1, WidthM: 0.3, DepthM: 0.3},
	}

	scene := ToScene(placements, DefaultCanvas())
	if scene.WidthM != 8 || scene.DepthM != 8 || scene.HeightM != DefaultRoomHeight {
		t.Errorf("unexpected room bounds: %+v", scene)
	}
	if len(scene.FurnitureBlocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(scene.FurnitureBlocks))
	}

	tv := scene.FurnitureBlocks[1]
	if tv.HM != 0.5 || tv.ColorHex != "#333333" || tv.RotationDeg != 180 {
		t.Errorf("unexpected tv block: %+v", tv)
	}
	wardrobe := scene.FurnitureBlocks[2]
	if wardrobe.HM != 2.0 || wardrobe.MaterialID != "wood" {
		t.Errorf("unexpected wardrobe block: %+v", wardrobe)
	}
	lamp := scene.FurnitureBlocks[3]
	if lamp.HM != 0.8 || lamp.ColorHex != "#cccccc" || lamp.MaterialID != "default" {
		t.Errorf("unexpected fallback block: %+v", lamp)
	}
}

func TestToGeoJSON(t *testing.T) {
	placements := []models.FurniturePlacement{
		box(2, 2, 1, 1, 0),
		box(2, 2, 1, 1, 0),
		box(6, 6, 1, 1, 0),
	}

	fc := ToGeoJSON(placements, DefaultCollisionMargin)
	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}
	if fc.Features[0].Properties["colliding"] != true || fc.Features[2].Properties["colliding"] != false {
		t.Errorf("unexpected collision flags: %v / %v", fc.Features[0].Properties, fc.Features[2].Properties)
	}

	poly, ok := fc.Features[2].Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("expected polygon geometry, got %T", fc.Features[2].Geometry)
	}
	if len(poly[0]) != 5 || poly[0][0] != poly[0][4] {
		t.Errorf("expected closed 5-point ring, got %v", poly[0])
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"FeatureCollection"`) {
		t.Errorf("unexpected geojson: %s", data)
	}
}

func TestBounds(t *testing.T) {
	b := Bounds([]models.FurniturePlacement{box(1, 1, 2, 2, 0), box(5, 4, 2, 2, 0)})
	if b.Min != (orb.Point{0, 0}) || b.Max != (orb.Point{6, 5}) {
		t.Errorf("unexpected bounds: %v", b)
	}
	if !Bounds(nil).IsZero() {
		t.Error("expected zero bound for empty layout")
	}
}
