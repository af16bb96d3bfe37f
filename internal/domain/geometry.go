package domain

import "math"

// Polygon returns the closed outline of the location rectangle in
// normalized map space: the four corners rotated about the rectangle
// center, with the first point repeated to close the ring.
func (l Location) Polygon() [][2]float64 {
	cx := l.XPct + l.WPct/2
	cy := l.YPct + l.HPct/2

	rad := l.RotationDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	corners := [4][2]float64{
		{-l.WPct / 2, -l.HPct / 2},
		{l.WPct / 2, -l.HPct / 2},
		{l.WPct / 2, l.HPct / 2},
		{-l.WPct / 2, l.HPct / 2},
	}

	// Screen-space rotation: y grows downward, so a positive angle
	// turns clockwise when rendered.
	pts := make([][2]float64, 0, 5)
	for _, c := range corners {
		pts = append(pts, [2]float64{
			cx + c[0]*cos + c[1]*sin,
			cy - c[0]*sin + c[1]*cos,
		})
	}
	return append(pts, pts[0])
}

// AsMapLocation pairs the location with its computed polygon.
func (l Location) AsMapLocation() MapLocation {
	return MapLocation{Location: l, Polygon: l.Polygon()}
}
