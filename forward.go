package panda

import (
	"math"

	"github.com/golang/geo/r3"
	"zappem.net/pub/math/geom"
)

// rot is a row-major 3x3 rotation.
type rot [3][3]float64

// rotCols assembles a rotation from its column vectors.
func rotCols(x, y, z r3.Vector) rot {
	return rot{
		{x.X, y.X, z.X},
		{x.Y, y.Y, z.Y},
		{x.Z, y.Z, z.Z},
	}
}

func (a rot) mul(b rot) rot {
	var m rot
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return m
}

// apply returns a*v.
func (a rot) apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: a[0][0]*v.X + a[0][1]*v.Y + a[0][2]*v.Z,
		Y: a[1][0]*v.X + a[1][1]*v.Y + a[1][2]*v.Z,
		Z: a[2][0]*v.X + a[2][1]*v.Y + a[2][2]*v.Z,
	}
}

// applyT returns transpose(a)*v.
func (a rot) applyT(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: a[0][0]*v.X + a[1][0]*v.Y + a[2][0]*v.Z,
		Y: a[0][1]*v.X + a[1][1]*v.Y + a[2][1]*v.Z,
		Z: a[0][2]*v.X + a[1][2]*v.Y + a[2][2]*v.Z,
	}
}

func (a rot) col(j int) r3.Vector {
	return r3.Vector{X: a[0][j], Y: a[1][j], Z: a[2][j]}
}

func (a rot) transpose() rot {
	return rot{
		{a[0][0], a[1][0], a[2][0]},
		{a[0][1], a[1][1], a[2][1]},
		{a[0][2], a[1][2], a[2][2]},
	}
}

// frame is a rigid transform: x -> r*x + p.
type frame struct {
	r rot
	p r3.Vector
}

// then composes f with the transform g expressed in f's coordinates.
func (f frame) then(g frame) frame {
	return frame{r: f.r.mul(g.r), p: f.p.Add(f.r.apply(g.p))}
}

// link is a modified Denavit-Hartenberg link.
type link struct {
	a, d, alpha float64
}

// at returns the transform of the link for joint angle theta.
func (l link) at(theta float64) frame {
	c, s := math.Cos(theta), math.Sin(theta)
	ca, sa := math.Cos(l.alpha), math.Sin(l.alpha)
	// Snap the quarter turn cosines so the zero pose is exact.
	if math.Abs(ca) < 1e-15 {
		ca = 0
	}
	return frame{
		r: rot{
			{c, -s, 0},
			{s * ca, c * ca, -sa},
			{s * sa, c * sa, ca},
		},
		p: r3.Vector{X: l.a, Y: -sa * l.d, Z: ca * l.d},
	}
}

var chain = [NumJoints]link{
	{a: 0, d: D1, alpha: 0},
	{a: 0, d: 0, alpha: -math.Pi / 2},
	{a: 0, d: D3, alpha: math.Pi / 2},
	{a: A4, d: 0, alpha: math.Pi / 2},
	{a: -A4, d: D5, alpha: -math.Pi / 2},
	{a: 0, d: 0, alpha: math.Pi / 2},
	{a: A7, d: 0, alpha: math.Pi / 2},
}

// eeFrame places the end-effector relative to joint 7.
var eeFrame = link{a: 0, d: D7e, alpha: 0}.at(-math.Pi / 4)

// frames returns the base-relative frames of joints 1 to 7 for q.
func frames(q Joints) [NumJoints]frame {
	var fs [NumJoints]frame
	f := frame{r: rot{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
	for i, l := range chain {
		f = f.then(l.at(q[i]))
		fs[i] = f
	}
	return fs
}

// endEffector returns the end-effector frame for q.
func endEffector(q Joints) frame {
	fs := frames(q)
	return fs[NumJoints-1].then(eeFrame)
}

// Forward evaluates the forward kinematics for a set of joint angles
// and returns the basis and position of the end-effector.
func Forward(q Joints) (geom.Matrix, geom.Vector) {
	ee := endEffector(q)
	r := ee.r
	return geom.M(
			r[0][0], r[0][1], r[0][2],
			r[1][0], r[1][1], r[1][2],
			r[2][0], r[2][1], r[2][2],
		),
		geom.V(ee.p.X, ee.p.Y, ee.p.Z)
}

// ForwardPose is Forward packaged as a Pose.
func ForwardPose(q Joints) Pose {
	m, v := Forward(q)
	return Pose{M: m, V: v}
}
