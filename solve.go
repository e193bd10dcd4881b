package panda

import (
	"math"

	"github.com/golang/geo/r3"
	"zappem.net/pub/math/geom"
)

// Pose holds a target end-effector basis and position relative to
// the robot base. M is a row-major 3x3 rotation which must be
// orthonormal; it is not re-orthonormalized.
type Pose struct {
	M geom.Matrix
	V geom.Vector
}

// WrapQ7 maps a redundancy angle into [-pi, pi].
func WrapQ7(q7 float64) float64 {
	return math.Remainder(q7, 2*math.Pi)
}

// clampTrig clamps x into [-1,1] if it strays by no more than
// Tolerance. ok is false otherwise.
func clampTrig(x float64) (float64, bool) {
	if !(x >= -1-Tolerance && x <= 1+Tolerance) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, x)), true
}

func acos(x float64) (float64, bool) {
	x, ok := clampTrig(x)
	if !ok {
		return 0, false
	}
	return math.Acos(x), true
}

func asin(x float64) (float64, bool) {
	x, ok := clampTrig(x)
	if !ok {
		return 0, false
	}
	return math.Asin(x), true
}

// arm holds the parts of a solution shared by all four cases: the
// elbow angle, the joint 6 frame, and the shoulder-wrist triangle.
type arm struct {
	q4, q7 float64

	p6, v26 r3.Vector
	r6      rot

	theta6, phi6 float64

	// lp6 is the distance from joint 6 back along z5 to the point
	// P where the upper arm direction meets the forearm line.
	lp6 float64
}

var p2 = r3.Vector{Z: D1}

// newArm solves the shoulder-elbow triangle and the wrist position
// for a pose and redundancy angle. ok is false when the pose is out
// of reach for every case.
func newArm(p Pose, q7 float64) (a arm, ok bool) {
	if len(p.M) != 9 || len(p.V) != 3 {
		return a, false
	}
	q7 = WrapQ7(q7)
	if !jointLimits[6].Contains(q7) {
		return a, false
	}
	a.q7 = q7

	rEE := rot{
		{p.M[0], p.M[1], p.M[2]},
		{p.M[3], p.M[4], p.M[5]},
		{p.M[6], p.M[7], p.M[8]},
	}
	zEE := rEE.col(2)
	pEE := r3.Vector{X: p.V[0], Y: p.V[1], Z: p.V[2]}
	p7 := pEE.Sub(zEE.Mul(D7e))

	// x6 expressed in the end-effector frame depends only on q7.
	xEE6 := r3.Vector{X: math.Cos(q7 - math.Pi/4), Y: -math.Sin(q7 - math.Pi/4)}
	x6 := rEE.apply(xEE6).Normalize()
	a.p6 = p7.Sub(x6.Mul(A7))

	a.v26 = a.p6.Sub(p2)
	ll26 := a.v26.Norm2()
	l26 := math.Sqrt(ll26)
	if l24+l46 < l26 || l24+l26 < l46 || l26+l46 < l24 {
		return a, false
	}

	theta246, ok := acos((ll24 + ll46 - ll26) / (2 * l24 * l46))
	if !ok {
		return a, false
	}
	a.q4 = theta246 + thetaH46 + theta342 - 2*math.Pi
	if !jointLimits[3].Contains(a.q4) {
		return a, false
	}

	theta462, ok := acos((ll26 + ll46 - ll24) / (2 * l26 * l46))
	if !ok {
		return a, false
	}
	theta26H := theta46H + theta462
	d26 := -l26 * math.Cos(theta26H)

	z6 := zEE.Cross(x6)
	y6 := z6.Cross(x6)
	a.r6 = rotCols(x6, y6.Normalize(), z6.Normalize())

	v62 := a.r6.applyT(a.v26.Mul(-1))
	a.phi6 = math.Atan2(v62.Y, v62.X)
	a.theta6, ok = asin(d26 / math.Hypot(v62.X, v62.Y))
	if !ok {
		return a, false
	}

	thetaP26 := 3*math.Pi/2 - theta462 - theta246 - theta342
	thetaP := math.Pi - thetaP26 - theta26H
	a.lp6 = l26 * math.Sin(thetaP26) / math.Sin(thetaP)
	return a, true
}

// wrist is the q6 branch of one elbow bit together with the points
// it fixes.
type wrist struct {
	q6  float64
	z5  r3.Vector
	v2p r3.Vector
}

// wrist solves q6 for an elbow bit. ok is false when q6 has no
// representative inside its limit.
func (a *arm) wrist(elbow int) (w wrist, ok bool) {
	lim := jointLimits[5]
	q6 := elbowBranch(elbow, a.theta6, a.phi6)
	if q6 <= lim.Min {
		q6 += 2 * math.Pi
	} else if q6 >= lim.Max {
		q6 -= 2 * math.Pi
	}
	if !lim.Contains(q6) {
		return w, false
	}
	w.q6 = q6
	w.z5 = a.r6.apply(r3.Vector{X: math.Sin(q6), Y: math.Cos(q6)})
	w.v2p = a.p6.Sub(w.z5.Mul(a.lp6)).Sub(p2)
	return w, true
}

// complete finishes a solution for a shoulder bit. q1 is taken from
// ref when the shoulder is singular.
func (a *arm) complete(w wrist, shoulder int, ref Joints) Joints {
	q := Joints{3: a.q4, 5: w.q6, 6: a.q7}

	rho := math.Hypot(w.v2p.X, w.v2p.Y)
	if !(rho > shoulderSingular*w.v2p.Norm()) {
		q[0] = ref[0]
		q[1] = 0
	} else {
		q[0] = math.Atan2(w.v2p.Y, w.v2p.X)
		q[1] = math.Atan2(rho, w.v2p.Z)
		if shoulder == 1 {
			if q[0] < 0 {
				q[0] += math.Pi
			} else {
				q[0] -= math.Pi
			}
			q[1] = -q[1]
		}
	}
	if !jointLimits[0].Contains(q[0]) || !jointLimits[1].Contains(q[1]) {
		return Invalid
	}

	// q3 from the upper arm frame.
	z3 := w.v2p.Normalize()
	y3 := a.v26.Cross(w.v2p).Mul(-1)
	if y3.Norm() < Tolerance {
		return Invalid
	}
	y3 = y3.Normalize()
	x3 := y3.Cross(z3)
	c1, s1 := math.Cos(q[0]), math.Sin(q[0])
	c2, s2 := math.Cos(q[1]), math.Sin(q[1])
	r1 := rot{
		{c1, -s1, 0},
		{s1, c1, 0},
		{0, 0, 1},
	}
	r12 := rot{
		{c2, -s2, 0},
		{0, 0, 1},
		{-s2, -c2, 0},
	}
	x23 := r1.mul(r12).applyT(x3)
	q[2] = math.Atan2(x23.Z, x23.X)
	if !jointLimits[2].Contains(q[2]) {
		return Invalid
	}

	// q5 from the elbow offset point seen in the joint 5 frame.
	vh4 := p2.Add(z3.Mul(D3)).Add(x3.Mul(A4)).Sub(a.p6).Add(w.z5.Mul(D5))
	c6, s6 := math.Cos(w.q6), math.Sin(w.q6)
	r56 := rot{
		{c6, -s6, 0},
		{0, 0, -1},
		{s6, c6, 0},
	}
	v5 := a.r6.mul(r56.transpose()).applyT(vh4)
	q[4] = -math.Atan2(v5.Y, v5.X)

	return validate(q)
}

// Solve computes the inverse kinematics of pose p for the redundancy
// angle q7 (the J7 angle, taken modulo 2*pi). It returns one solution
// per Case, in Case order; a case that cannot reach the pose or
// breaks a joint limit is Invalid. ref is only consulted for q1 when
// the shoulder is singular and may be the zero configuration.
func Solve(p Pose, q7 float64, ref Joints) [NumCases]Joints {
	all := [NumCases]Joints{Invalid, Invalid, Invalid, Invalid}
	a, ok := newArm(p, q7)
	if !ok {
		return all
	}
	for elbow := 0; elbow < 2; elbow++ {
		w, ok := a.wrist(elbow)
		if !ok {
			continue
		}
		for shoulder := 0; shoulder < 2; shoulder++ {
			all[NewCase(elbow, shoulder)] = a.complete(w, shoulder, ref)
		}
	}
	return all
}

// SolveCase computes the single solution of case c. It returns
// Invalid when c cannot reach the pose.
func SolveCase(p Pose, q7 float64, c Case, ref Joints) Joints {
	a, ok := newArm(p, q7)
	if !ok {
		return Invalid
	}
	w, ok := a.wrist(c.Elbow())
	if !ok {
		return Invalid
	}
	return a.complete(w, c.Shoulder(), ref)
}

// SolveCC computes the solution in the same case as the reference
// configuration ref, typically the robot's current joints. No other
// case is ever substituted: when that case cannot reach the pose,
// or ref is itself outside the joint limits, Invalid is returned.
func SolveCC(p Pose, q7 float64, ref Joints) Joints {
	if !ref.WithinLimits() {
		return Invalid
	}
	return SolveCase(p, q7, CaseOf(ref), ref)
}

// SelfMotion samples the self-motion manifold of pose p within case
// c: one solution per redundancy angle in q7s.
func SelfMotion(p Pose, c Case, q7s []float64, ref Joints) []Joints {
	qs := make([]Joints, len(q7s))
	for i, q7 := range q7s {
		qs[i] = SolveCase(p, q7, c, ref)
	}
	return qs
}
