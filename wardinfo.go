package metawards

// WardInfo holds the identifying metadata for a Ward: its name, code,
// local authority, and region. Two Wards with unresolved (WardInfo-keyed)
// links are matched by value equality of WardInfo, so it is kept
// comparable (no slices/maps) and usable as a map key.
type WardInfo struct {
	Name      string
	Code      string
	Authority string
	Region    string
}

// IsNull returns true if none of the WardInfo fields have been set.
func (w WardInfo) IsNull() bool {
	return w.Name == "" && w.Code == "" && w.Authority == "" && w.Region == ""
}

func (w WardInfo) String() string {
	return "WardInfo(name=" + w.Name + ", code=" + w.Code +
		", authority=" + w.Authority + ", region=" + w.Region + ")"
}

// Position is the spatial location of a ward, stored internally in
// kilometers for x/y coordinates. Either XY or LatLong may be set, never
// both.
type Position struct {
	HasXY bool
	X, Y  float64

	HasLatLong bool
	Lat, Long  float64
}

// PositionFromXY builds a Position from x/y coordinates given in the
// supplied units ("m" or "km"). This mirrors Ward.set_position in the
// original metawards source, which always stores positions in km.
func PositionFromXY(x, y float64, units string) (Position, error) {
	var scale float64
	switch units {
	case "", "m", "meter", "meters":
		scale = 0.001
	case "km", "kilometer", "kilometers":
		scale = 1.0
	default:
		return Position{}, errorf(InvalidStringParameterError, "units", units,
			"must be 'm' or 'km'")
	}
	return Position{HasXY: true, X: x * scale, Y: y * scale}, nil
}

// PositionFromLatLong builds a Position from latitude/longitude.
func PositionFromLatLong(lat, long float64) Position {
	return Position{HasLatLong: true, Lat: lat, Long: long}
}
