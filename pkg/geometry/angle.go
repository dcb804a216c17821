package geometry

import (
	"errors"
	"math"
)

var ErrDegenerateSegment = errors.New("degenerate segment: zero-length vector")

// Point is a 2-D position in image pixel coordinates (y grows downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// vertical points up the image, matching the pose model's convention.
var vertical = Point{X: 0, Y: -1}

// JointAngle returns the angle at vertex b between the rays b->a and b->c,
// in degrees within [0, 180].
func JointAngle(a, b, c Point) (float64, error) {
	return angleBetween(a.Sub(b), c.Sub(b))
}

// VerticalAngle returns the angle between the vertical axis and the
// direction from a to b, in degrees within [0, 180].
func VerticalAngle(a, b Point) (float64, error) {
	return angleBetween(vertical, b.Sub(a))
}

func angleBetween(u, v Point) (float64, error) {
	nu, nv := u.Norm(), v.Norm()
	if nu == 0 || nv == 0 {
		return math.NaN(), ErrDegenerateSegment
	}
	if math.IsNaN(nu) || math.IsNaN(nv) || math.IsInf(nu, 0) || math.IsInf(nv, 0) {
		return math.NaN(), ErrDegenerateSegment
	}

	// unit vectors keep the dot product finite for very large coordinates
	cosine := clamp(Point{X: u.X / nu, Y: u.Y / nu}.Dot(Point{X: v.X / nv, Y: v.Y / nv}), -1, 1)
	return Degrees(math.Acos(cosine)), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
