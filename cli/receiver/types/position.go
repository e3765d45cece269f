package types

// Position2D is a point with nullable coordinates. A nil coordinate
// means "unknown position", not absence of the device.
type Position2D struct {
	Latitude  *float64
	Longitude *float64
}

func (p Position2D) EqualsTo(other Position2D) bool {
	return floatEquals(p.Latitude, other.Latitude) &&
		floatEquals(p.Longitude, other.Longitude)
}

func floatEquals(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
