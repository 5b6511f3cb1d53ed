package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unitSquare() []Point2D {
	return []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
}

func TestPointInPolygon(t *testing.T) {
	tests := []struct {
		name    string
		point   Point2D
		polygon []Point2D
		want    bool
	}{
		{"center of unit square", Point2D{0.5, 0.5}, unitSquare(), true},
		{"outside right", Point2D{1.5, 0.5}, unitSquare(), false},
		{"outside above", Point2D{0.5, 2.0}, unitSquare(), false},
		{"far away", Point2D{100, 100}, unitSquare(), false},
		{"inside near edge", Point2D{0.999, 0.5}, unitSquare(), true},
		{"concave notch excluded", Point2D{2, 0.5}, []Point2D{
			{0, 0}, {4, 0}, {4, 3}, {2, 1}, {0, 3},
		}, true},
		{"concave mouth excluded", Point2D{2, 2.5}, []Point2D{
			{0, 0}, {4, 0}, {4, 3}, {2, 1}, {0, 3},
		}, false},
		{"two vertices never contain", Point2D{0.5, 0.0}, []Point2D{{0, 0}, {1, 0}}, false},
		{"empty polygon never contains", Point2D{0, 0}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointInPolygon(tt.point, tt.polygon))
		})
	}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name    string
		polygon []Point2D
		want    float64
	}{
		{"10x10 square", []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, 100},
		{"20x20 square", []Point2D{{0, 0}, {20, 0}, {20, 20}, {0, 20}}, 400},
		{"triangle", []Point2D{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"clockwise winding is unsigned", []Point2D{{0, 10}, {10, 10}, {10, 0}, {0, 0}}, 100},
		{"degenerate two vertices", []Point2D{{0, 0}, {5, 5}}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PolygonArea(tt.polygon), 1e-9)
		})
	}
}
