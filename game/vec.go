package game

import "math"

// Vec3 is a world-space vector. Y is up, -Z is the initial forward.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) LenSq() float64 { return v.Dot(v) }

func (v Vec3) Len() float64 { return math.Sqrt(v.LenSq()) }

// Normalize returns the unit vector, or the zero vector for zero input
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// ClampLen scales v down so its length is at most max
func (v Vec3) ClampLen(max float64) Vec3 {
	l := v.Len()
	if l > max && l > 0 {
		return v.Scale(max / l)
	}
	return v
}

// Distance returns the distance between two points
func Distance(a, b Vec3) float64 {
	return b.Sub(a).Len()
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Orientation is a yaw-then-pitch rotation (radians).
type Orientation struct {
	Yaw   float64
	Pitch float64
}

// Forward returns the unit view direction
func (o Orientation) Forward() Vec3 {
	sy, cy := math.Sincos(o.Yaw)
	sp, cp := math.Sincos(o.Pitch)
	return Vec3{-cp * sy, sp, -cp * cy}
}

// Right returns the unit strafe direction
func (o Orientation) Right() Vec3 {
	sy, cy := math.Sincos(o.Yaw)
	return Vec3{cy, 0, -sy}
}

// Up returns the unit ascend direction
func (o Orientation) Up() Vec3 {
	sy, cy := math.Sincos(o.Yaw)
	sp, cp := math.Sincos(o.Pitch)
	return Vec3{sp * sy, cp, sp * cy}
}

// LookAt returns the orientation whose forward points from -> to
func LookAt(from, to Vec3) Orientation {
	d := to.Sub(from)
	if d.LenSq() == 0 {
		return Orientation{}
	}
	horiz := math.Hypot(d.X, d.Z)
	return Orientation{
		Yaw:   math.Atan2(-d.X, -d.Z),
		Pitch: math.Atan2(d.Y, horiz),
	}
}
