package places

import (
	"math"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// DistanceKm calculates the great-circle distance between two coordinates
// using the Haversine formula. Returns distance in kilometers.
func DistanceKm(a, b types.Coordinates) float64 {
	const R = 6371 // Earth's radius in kilometers

	lat1Rad := a.Latitude * math.Pi / 180
	lon1Rad := a.Longitude * math.Pi / 180
	lat2Rad := b.Latitude * math.Pi / 180
	lon2Rad := b.Longitude * math.Pi / 180

	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return R * c
}

// DistanceMeters is DistanceKm in meters, for walking-threshold checks.
func DistanceMeters(a, b types.Coordinates) float64 {
	return DistanceKm(a, b) * 1000
}
