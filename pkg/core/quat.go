package core

import "math"

// Quat is a unit quaternion that ToMat4 converts to a rotation matrix.
// The glTF loader (pkg/loaders/gltf.go) does not read node rotations and
// does not use it.
type Quat struct {
	X, Y, Z, W float64
}

// NewQuat creates a quaternion from components.
func NewQuat(x, y, z, w float64) Quat { return Quat{x, y, z, w} }

// ToMat4 converts the quaternion to a rotation matrix.
func (q Quat) ToMat4() Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	n := math.Sqrt(x*x + y*y + z*z + w*w)
	if n > 0 {
		x, y, z, w = x/n, y/n, z/n, w/n
	}
	m := Identity4()
	m[0][0] = 1 - 2*(y*y+z*z)
	m[0][1] = 2 * (x*y - z*w)
	m[0][2] = 2 * (x*z + y*w)
	m[1][0] = 2 * (x*y + z*w)
	m[1][1] = 1 - 2*(x*x+z*z)
	m[1][2] = 2 * (y*z - x*w)
	m[2][0] = 2 * (x*z - y*w)
	m[2][1] = 2 * (y*z + x*w)
	m[2][2] = 1 - 2*(x*x+y*y)
	return m
}
