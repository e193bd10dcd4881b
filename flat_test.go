package panda

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestColumnMajor(t *testing.T) {
	p := ForwardPose(readyJoints)
	a := p.ColumnMajor()
	test.That(t, a[3], test.ShouldEqual, 0.0)
	test.That(t, a[15], test.ShouldEqual, 1.0)
	test.That(t, a[12], test.ShouldEqual, p.V[0])
	test.That(t, a[1], test.ShouldEqual, p.M[3])

	back, err := FromColumnMajor(a[:])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, poseErr(back, p), test.ShouldEqual, 0.0)
}

func TestFromColumnMajorErrors(t *testing.T) {
	_, err := FromColumnMajor(make([]float64, 15))
	test.That(t, errors.Is(err, ErrBadLength), test.ShouldBeTrue)

	// All zero basis.
	a := make([]float64, 16)
	a[15] = 1
	_, err = FromColumnMajor(a)
	test.That(t, errors.Is(err, ErrNotRotation), test.ShouldBeTrue)

	// Reflection.
	a = []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, -1, 0, 0.3, 0, 0.5, 1}
	_, err = FromColumnMajor(a)
	test.That(t, errors.Is(err, ErrNotRotation), test.ShouldBeTrue)

	// Bad bottom row.
	a = []float64{1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1, 0, 0.3, 0, 0.5, 1}
	_, err = FromColumnMajor(a)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bottom row")
}

func TestSolveFlat(t *testing.T) {
	p := ForwardPose(readyJoints)
	a := p.ColumnMajor()

	qs, err := SolveFlat(a[:], readyJoints[6], readyJoints[:])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, qs[CaseElbowFarShoulderUp].IsValid(), test.ShouldBeTrue)

	q, err := SolveCCFlat(a[:], readyJoints[6], readyJoints[:])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, q, test.ShouldResemble, qs[CaseElbowFarShoulderUp])

	_, err = SolveFlat(a[:], 0, readyJoints[:6])
	test.That(t, errors.Is(err, ErrBadLength), test.ShouldBeTrue)
	_, err = SolveCCFlat(a[:12], 0, readyJoints[:])
	test.That(t, errors.Is(err, ErrBadLength), test.ShouldBeTrue)

	// A sheared basis is reported through the sentinel only.
	a[4] += 0.2
	qs, err = SolveFlat(a[:], readyJoints[6], readyJoints[:])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, validCount(qs), test.ShouldEqual, 0)
	q, err = SolveCCFlat(a[:], readyJoints[6], readyJoints[:])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, math.IsNaN(q[0]), test.ShouldBeTrue)
}

func TestPoseFromQuat(t *testing.T) {
	// Half turn about x: the tool points down.
	p, err := PoseFromQuat(r3.Vector{X: 0.5545, Z: 0.5211}, quat.Number{Imag: 2})
	test.That(t, err, test.ShouldBeNil)
	want := []float64{1, 0, 0, 0, -1, 0, 0, 0, -1}
	for i := range want {
		test.That(t, p.M[i], test.ShouldAlmostEqual, want[i], 1e-12)
	}
	test.That(t, p.V[0], test.ShouldEqual, 0.5545)

	_, err = PoseFromQuat(r3.Vector{}, quat.Number{})
	test.That(t, errors.Is(err, ErrNotRotation), test.ShouldBeTrue)
}
