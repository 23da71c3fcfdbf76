package models

// BoundingBox represents a place's extent as south/north/west/east limits
// (WGS 84 degrees).
type BoundingBox struct {
	South float64
	North float64
	West  float64
	East  float64
}

// Center returns the box midpoint. Averaging the extents centers areas
// (cities, countries) better than the place's representative point.
func (b BoundingBox) Center() (lat, lon float64) {
	return (b.South + b.North) / 2, (b.West + b.East) / 2
}

// MaxSpan returns the larger of the latitude and longitude extents in
// degrees, the proxy used to derive a zoom level.
func (b BoundingBox) MaxSpan() float64 {
	latSpan := b.North - b.South
	lonSpan := b.East - b.West
	if latSpan > lonSpan {
		return latSpan
	}
	return lonSpan
}

// GeocodeResult represents a resolved place
type GeocodeResult struct {
	DisplayName string
	Lat         float64
	Lon         float64
	Box         *BoundingBox
}
