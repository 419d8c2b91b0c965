// Package camera holds the view and projection transforms handed to the
// renderer.
package camera

import (
	"math"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// Camera owns a view matrix. It is changed only through its methods and is
// passed to the renderer explicitly.
type Camera struct {
	view mgl.Mat4

	pitch float32
	yaw   float32
}

// LookAt returns a camera at eye looking at center.
func LookAt(eye, center, up mgl.Vec3) *Camera {
	return &Camera{view: mgl.LookAtV(eye, center, up)}
}

// Translate moves the view by v in the view's own coordinate frame, i.e.
// view = view * translate(v).
func (c *Camera) Translate(v mgl.Vec3) {
	c.view = c.view.Mul4(mgl.Translate3D(v.X(), v.Y(), v.Z()))
}

// Orbit turns the view around the world origin. Pitch is kept within
// straight up and straight down.
func (c *Camera) Orbit(dpitch, dyaw float32) {
	pitch := mgl.Clamp(c.pitch+dpitch, -math.Pi/2, math.Pi/2)
	dpitch = pitch - c.pitch
	c.pitch = pitch
	c.yaw += dyaw

	// yaw about world y, then pitch about the view's x axis through the
	// world origin
	view := c.view.Mul4(mgl.HomogRotate3DY(dyaw))
	o := view.Col(3).Vec3()
	c.view = mgl.Translate3D(o.X(), o.Y(), o.Z()).
		Mul4(mgl.HomogRotate3DX(dpitch)).
		Mul4(mgl.Translate3D(-o.X(), -o.Y(), -o.Z())).
		Mul4(view)
}

func (c *Camera) View() mgl.Mat4 {
	return c.view
}

// Angles returns the accumulated orbit pitch and yaw in radians.
func (c *Camera) Angles() (pitch, yaw float32) {
	return c.pitch, c.yaw
}

// Projection describes a perspective frustum. FovY is in degrees.
type Projection struct {
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultProjection matches a 45 degree lens with a 0.1 to 100 depth range.
func DefaultProjection(aspect float32) Projection {
	return Projection{FovY: 45, Aspect: aspect, Near: 0.1, Far: 100}
}

func (p Projection) Matrix() mgl.Mat4 {
	return mgl.Perspective(mgl.DegToRad(p.FovY), p.Aspect, p.Near, p.Far)
}
