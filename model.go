// Package panda does closed-form forward and inverse kinematics for
// a seven axis arm with the kinematic structure of the Franka Emika
// Panda.
//
// The chain follows the modified Denavit-Hartenberg convention with
// the robot in its "all angles zero" pose:
//
//	J1 = rotate around Z (base), shoulder height d1
//	J2 = rotate around the shoulder pitch axis
//	J3 = upper arm roll, upper arm length d3
//	J4 = elbow, offset a4 on both sides of the joint
//	J5 = forearm roll, forearm length d5
//	J6 = wrist pitch
//	J7 = flange roll, offset a7, hand reaching d7e along z7
//
// Seven joints are one more than a pose needs, so the inverse is
// parameterized by the angle of the last joint, q7. For a fixed pose
// and q7 there are up to four solutions, one per Case.
package panda

import "math"

// NumJoints is the number of arm joints.
const NumJoints = 7

// Link lengths and offsets in meters.
const (
	D1  = 0.333
	D3  = 0.316
	D5  = 0.384
	A4  = 0.0825
	A7  = 0.088
	D7e = 0.107 + 0.1034 // flange plus hand
)

// Tolerance is the band outside [-1,1] an inverse cosine or sine
// argument may stray and still be clamped. Past it the branch has no
// solution.
const Tolerance = 1e-7

// shoulderSingular is the sine of the angle between the upper arm
// and the base z axis below which q1 cannot be resolved.
const shoulderSingular = 1e-6

// Derived triangle geometry of the shoulder(2), elbow(4) and
// wrist(6) points.
var (
	ll24 = A4*A4 + D3*D3
	ll46 = A4*A4 + D5*D5
	l24  = math.Sqrt(ll24)
	l46  = math.Sqrt(ll46)

	thetaH46 = math.Atan2(D5, A4)
	theta342 = math.Atan2(D3, A4)
	theta46H = math.Atan2(A4, D5)
)

// MaxReach is the largest shoulder to wrist distance.
var MaxReach = l24 + l46

// MinReach is the smallest shoulder to wrist distance.
var MinReach = math.Abs(l46 - l24)

// Limit holds the open range of angles a joint may adopt.
type Limit struct {
	Min, Max float64
}

// Contains reports whether a lies strictly inside the limit. NaN is
// never contained.
func (l Limit) Contains(a float64) bool {
	return a > l.Min && a < l.Max
}

var jointLimits = [NumJoints]Limit{
	{Min: -2.8973, Max: 2.8973},
	{Min: -1.7628, Max: 1.7628},
	{Min: -2.8973, Max: 2.8973},
	{Min: -3.0718, Max: -0.0698},
	{Min: -2.8973, Max: 2.8973},
	{Min: -0.0175, Max: 3.7525},
	{Min: -2.8973, Max: 2.8973},
}

// Limits returns the joint limits in radians.
func Limits() [NumJoints]Limit {
	return jointLimits
}

// Joints holds a joint configuration in radians, J1 first.
type Joints [NumJoints]float64

// Invalid is the sentinel returned in place of a solution that does
// not exist or breaks a joint limit. Every component is NaN.
var Invalid = Joints{
	math.NaN(), math.NaN(), math.NaN(), math.NaN(),
	math.NaN(), math.NaN(), math.NaN(),
}

// IsValid reports whether q is a solution rather than the Invalid
// sentinel.
func (q Joints) IsValid() bool {
	for _, a := range q {
		if math.IsNaN(a) {
			return false
		}
	}
	return true
}

// WithinLimits reports whether every joint of q is inside its limit.
func (q Joints) WithinLimits() bool {
	for i, a := range q {
		if !jointLimits[i].Contains(a) {
			return false
		}
	}
	return true
}

// validate replaces q with Invalid unless every joint is in range.
func validate(q Joints) Joints {
	if !q.WithinLimits() {
		return Invalid
	}
	return q
}
