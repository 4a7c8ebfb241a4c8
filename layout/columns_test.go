package layout

import (
	"testing"

	"github.com/tsawler/pagelayout/model"
)

// makeElement creates a text element for layout tests
func makeElement(id int, l, t, r, b float64) model.Element {
	return model.NewTextItem(id, model.LabelText, model.NewBBox(l, t, r, b), "", nil)
}

func ids(elements []model.Element) []int {
	out := make([]int, len(elements))
	for i, e := range elements {
		out[i] = e.ClusterID()
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDefaultColumnConfig(t *testing.T) {
	config := DefaultColumnConfig()
	if config.MinOverlap != 0 {
		t.Errorf("Expected MinOverlap 0, got %v", config.MinOverlap)
	}
	if NewColumnDetector() == nil {
		t.Fatal("NewColumnDetector returned nil")
	}
}

func TestColumnDetectEmpty(t *testing.T) {
	result := NewColumnDetector().Detect(nil)
	if result == nil {
		t.Fatal("Expected non-nil result")
	}
	if result.Bands != nil || result.Bridges != nil {
		t.Errorf("Expected no bands or bridges, got %+v", result)
	}
}

func TestColumnDetectTwoColumns(t *testing.T) {
	elements := []model.Element{
		makeElement(0, 320, 100, 550, 150),
		makeElement(1, 50, 100, 280, 150),
		makeElement(2, 50, 200, 280, 250),
		makeElement(3, 320, 200, 550, 250),
	}

	bands := NewColumnDetector().Detect(elements).Bands
	if len(bands) != 2 {
		t.Fatalf("Expected 2 bands, got %d", len(bands))
	}
	if bands[0].MinX != 50 || bands[0].MaxX != 280 {
		t.Errorf("Band 0 extent = [%v,%v], want [50,280]", bands[0].MinX, bands[0].MaxX)
	}
	if got := ids(bands[0].Elements); !equalInts(got, []int{1, 2}) {
		t.Errorf("Band 0 elements = %v, want [1 2]", got)
	}
	if got := ids(bands[1].Elements); !equalInts(got, []int{0, 3}) {
		t.Errorf("Band 1 elements = %v, want [0 3]", got)
	}
	if bands[1].Index != 1 || bands[1].Width() != 230 {
		t.Errorf("Band 1 index/width = %d/%v", bands[1].Index, bands[1].Width())
	}
}

func TestColumnDetectChainedOverlap(t *testing.T) {
	// 0 overlaps 1, 1 overlaps 2, 0 and 2 are disjoint: still one band
	elements := []model.Element{
		makeElement(0, 0, 0, 100, 10),
		makeElement(1, 90, 20, 200, 30),
		makeElement(2, 190, 40, 300, 50),
	}
	bands := NewColumnDetector().Detect(elements).Bands
	if len(bands) != 1 {
		t.Fatalf("Expected 1 band, got %d", len(bands))
	}
	if bands[0].MaxX != 300 {
		t.Errorf("Band MaxX = %v, want 300", bands[0].MaxX)
	}
}

func TestColumnDetectTouchingRangesSplit(t *testing.T) {
	elements := []model.Element{
		makeElement(0, 0, 0, 100, 10),
		makeElement(1, 100, 0, 200, 10),
	}
	if bands := NewColumnDetector().Detect(elements).Bands; len(bands) != 2 {
		t.Errorf("Expected touching ranges in 2 bands, got %d", len(bands))
	}
}

func TestColumnDetectMinOverlap(t *testing.T) {
	elements := []model.Element{
		makeElement(0, 0, 0, 100, 10),
		makeElement(1, 95, 20, 200, 30),
	}
	detector := NewColumnDetectorWithConfig(ColumnConfig{MinOverlap: 10})
	if bands := detector.Detect(elements).Bands; len(bands) != 2 {
		t.Errorf("Expected 5-unit overlap below MinOverlap to split, got %d bands", len(bands))
	}
}

func TestColumnDetectBridge(t *testing.T) {
	// A page number centered under two columns touches both of them
	elements := []model.Element{
		makeElement(0, 50, 100, 290, 200),
		makeElement(1, 310, 100, 550, 200),
		makeElement(2, 270, 760, 330, 775),
		makeElement(3, 50, 220, 120, 240),
	}

	result := NewColumnDetector().Detect(elements)
	if len(result.Bands) != 2 {
		t.Fatalf("Expected 2 bands, got %d", len(result.Bands))
	}
	if got := ids(result.Bands[0].Elements); !equalInts(got, []int{0, 3}) {
		t.Errorf("Band 0 elements = %v, want [0 3]", got)
	}
	if got := ids(result.Bands[1].Elements); !equalInts(got, []int{1}) {
		t.Errorf("Band 1 elements = %v, want [1]", got)
	}
	if got := ids(result.Bridges); !equalInts(got, []int{2}) {
		t.Errorf("Bridges = %v, want [2]", got)
	}
}

func TestColumnDetectWideElementJoinsColumns(t *testing.T) {
	// Placed first, a wide element is a band of its own that narrower
	// elements join, not a bridge
	elements := []model.Element{
		makeElement(0, 50, 100, 290, 200),
		makeElement(1, 50, 20, 450, 60),
		makeElement(2, 310, 100, 550, 200),
	}

	result := NewColumnDetector().Detect(elements)
	if len(result.Bands) != 1 || len(result.Bridges) != 0 {
		t.Fatalf("Expected 1 band and no bridges, got %d bands, %d bridges", len(result.Bands), len(result.Bridges))
	}
	if result.Bands[0].MinX != 50 || result.Bands[0].MaxX != 550 {
		t.Errorf("Band extent = [%v,%v], want [50,550]", result.Bands[0].MinX, result.Bands[0].MaxX)
	}
}
