package renderer

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// Camera is a thin-lens perspective camera: it generates a jittered ray
// per pixel for box-filtered antialiasing, and an optional circle-of-
// confusion offset for depth-of-field, per the out-of-scope "camera/film
// pipeline" collaborator spec.md names at its interface.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
	width, height   int
}

// CameraConfig describes a camera in scene-author terms (position, look
// target, vertical field of view) rather than the raw basis vectors
// Camera itself caches.
type CameraConfig struct {
	LookFrom, LookAt, Up core.Vec3
	VFOV                 float64 // vertical field of view, degrees
	Aperture             float64 // lens diameter; 0 disables depth of field
	FocusDistance        float64 // 0 means focus at |LookAt-LookFrom|
	Width, Height        int
}

// NewCamera builds a Camera from a CameraConfig, per the teacher's
// viewport-vector construction generalized from a fixed origin/viewport
// to an arbitrary look-from/look-at/up basis.
func NewCamera(cfg CameraConfig) *Camera {
	focusDist := cfg.FocusDistance
	if focusDist <= 0 {
		focusDist = cfg.LookAt.Subtract(cfg.LookFrom).Length()
		if focusDist <= 0 {
			focusDist = 1
		}
	}

	theta := cfg.VFOV * math.Pi / 180
	h := math.Tan(theta / 2)
	aspectRatio := float64(cfg.Width) / float64(cfg.Height)
	viewportHeight := 2.0 * h
	viewportWidth := aspectRatio * viewportHeight

	w := cfg.LookFrom.Subtract(cfg.LookAt).Normalize()
	u := cfg.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth * focusDist)
	vertical := v.Multiply(viewportHeight * focusDist)
	lowerLeftCorner := cfg.LookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDist))

	return &Camera{
		origin:          cfg.LookFrom,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      cfg.Aperture / 2,
		width:           cfg.Width,
		height:          cfg.Height,
	}
}

// GetRay generates a camera ray for pixel (px, py), jittered within the
// pixel footprint (and across the lens aperture, if non-zero) by
// sampler, so repeated calls at the same pixel build up an antialiased,
// depth-of-field-blurred estimate.
func (c *Camera) GetRay(px, py int, sampler core.Sampler) core.Ray {
	jx, jy := sampler.Next2D()
	s := (float64(px) + jx) / float64(c.width)
	t := 1 - (float64(py)+jy)/float64(c.height) // image-space Y grows downward; viewport Y grows upward

	origin := c.origin
	if c.lensRadius > 0 {
		lu, lv := sampler.Next2D()
		rd := randomInUnitDisk(lu, lv).Multiply(c.lensRadius)
		offset := c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
		origin = origin.Add(offset)
	}

	target := c.lowerLeftCorner.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	direction := target.Subtract(origin)
	return core.NewRay(origin, direction.Normalize())
}

func randomInUnitDisk(u1, u2 float64) core.Vec3 {
	r := math.Sqrt(u1)
	theta := 2 * math.Pi * u2
	return core.NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}
