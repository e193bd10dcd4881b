package panda

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Case labels one of the four discrete branches of the inverse. Bit 1
// is the elbow branch (the wrist flip chosen for q6), bit 0 the
// shoulder branch (q1 turned by pi with q2 negated).
type Case uint8

// NumCases is the number of discrete branches.
const NumCases = 4

// The cases in solution order.
const (
	CaseElbowNearShoulderUp Case = iota
	CaseElbowNearShoulderFlip
	CaseElbowFarShoulderUp
	CaseElbowFarShoulderFlip
)

// NewCase builds a case from its two branch bits.
func NewCase(elbow, shoulder int) Case {
	return Case((elbow&1)<<1 | shoulder&1)
}

// Elbow returns the elbow branch bit.
func (c Case) Elbow() int {
	return int(c>>1) & 1
}

// Shoulder returns the shoulder branch bit.
func (c Case) Shoulder() int {
	return int(c) & 1
}

func (c Case) String() string {
	switch c {
	case CaseElbowNearShoulderUp:
		return "elbow-near/shoulder-up"
	case CaseElbowNearShoulderFlip:
		return "elbow-near/shoulder-flip"
	case CaseElbowFarShoulderUp:
		return "elbow-far/shoulder-up"
	case CaseElbowFarShoulderFlip:
		return "elbow-far/shoulder-flip"
	}
	return fmt.Sprintf("Case(%d)", uint8(c))
}

// elbowBranch is the q6 formula for an elbow bit. theta6 and phi6
// are the wrist angles of the shoulder point seen from joint 6.
func elbowBranch(elbow int, theta6, phi6 float64) float64 {
	if elbow == 0 {
		return math.Pi - theta6 - phi6
	}
	return theta6 - phi6
}

// elbowBit recovers the elbow branch from the joint 6 frame: v6h and
// v62 run from joint 6 to the elbow offset point and to the shoulder,
// z6 is the joint 6 axis. It is the inverse of elbowBranch.
func elbowBit(v6h, v62, z6 r3.Vector) int {
	if v6h.Cross(v62).Dot(z6) <= 0 {
		return 0
	}
	return 1
}

// shoulderBit recovers the shoulder branch from q2. The flipped
// branch is the one with the shoulder bent backwards.
func shoulderBit(q2 float64) int {
	if q2 < 0 {
		return 1
	}
	return 0
}

// CaseOf returns the case a configuration belongs to, using the same
// tests the solver uses to build each case.
func CaseOf(q Joints) Case {
	fs := frames(q)
	o2 := fs[1].p
	o4 := fs[3]
	o6 := fs[5]
	h := o4.p.Add(o4.r.col(0).Mul(-A4))
	e := elbowBit(h.Sub(o6.p), o2.Sub(o6.p), o6.r.col(2))
	return NewCase(e, shoulderBit(q[1]))
}
