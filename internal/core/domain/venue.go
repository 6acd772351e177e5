package domain

import "math"

// Venue is an optional address plus coordinates, used both for an event's
// location and for a user's stored location.
type Venue struct {
	Address   string
	Latitude  *float64
	Longitude *float64
}

func (v Venue) HasCoordinates() bool {
	return v.Latitude != nil && v.Longitude != nil
}

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance in kilometers between the
// venue and the given coordinates, using the Haversine formula. The venue
// must have coordinates.
func (v Venue) DistanceKm(lat, lng float64) float64 {
	lat1 := radians(*v.Latitude)
	lat2 := radians(lat)
	dLat := radians(lat - *v.Latitude)
	dLng := radians(lng - *v.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
