package content

import "math"

const (
	earthRadiusMiles = 3958.8

	// RoadFactor scales straight-line distance to an approximate driving
	// distance on a suburban road grid.
	RoadFactor = 1.3

	// AverageSpeedMPH is the assumed door-to-door driving speed.
	AverageSpeedMPH = 35.0
)

// Coord is a latitude/longitude pair in degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// IsZero reports whether c is unset.
func (c Coord) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

// HaversineMiles returns the great-circle distance between a and b.
func HaversineMiles(a, b Coord) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Commute is an estimated drive from a patient's city to the clinic.
type Commute struct {
	Miles   float64
	Minutes int
}

// EstimateCommute applies RoadFactor to the great-circle distance and converts
// it to minutes at AverageSpeedMPH. Miles are rounded to one decimal place.
func EstimateCommute(from, to Coord) Commute {
	miles := HaversineMiles(from, to) * RoadFactor
	return Commute{
		Miles:   math.Round(miles*10) / 10,
		Minutes: int(math.Round(miles / AverageSpeedMPH * 60)),
	}
}
