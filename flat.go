package panda

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"zappem.net/pub/math/geom"
)

// Version of the solver interface.
const Version = "1.0.0"

// rotationTolerance bounds how far R^T*R may stray from identity, and
// det(R) from 1, for a basis to count as a rotation.
const rotationTolerance = 1e-6

// FromColumnMajor decodes a flattened 4x4 homogeneous transform in
// column-major order. A slice that is not 16 long gives ErrBadLength;
// a transform that is not rigid gives ErrNotRotation along with the
// decoded pose.
func FromColumnMajor(a []float64) (Pose, error) {
	if len(a) != 16 {
		return Pose{}, errors.Wrapf(ErrBadLength, "pose has %d elements, want 16", len(a))
	}
	// Read row-major, the transpose is the transform.
	t := mat.NewDense(4, 4, append([]float64(nil), a...)).T()

	r := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.Set(i, j, t.At(i, j))
		}
	}
	p := Pose{
		M: geom.M(r.RawMatrix().Data...),
		V: geom.V(t.At(0, 3), t.At(1, 3), t.At(2, 3)),
	}

	if t.At(3, 0) != 0 || t.At(3, 1) != 0 || t.At(3, 2) != 0 || t.At(3, 3) != 1 {
		return p, errors.Wrap(ErrNotRotation, "bottom row is not [0 0 0 1]")
	}
	var rtr mat.Dense
	rtr.Mul(r.T(), r)
	if !mat.EqualApprox(&rtr, mat.NewDiagDense(3, []float64{1, 1, 1}), rotationTolerance) {
		return p, errors.Wrap(ErrNotRotation, "basis is not orthonormal")
	}
	if d := mat.Det(r); math.Abs(d-1) > rotationTolerance {
		return p, errors.Wrapf(ErrNotRotation, "basis determinant %g", d)
	}
	return p, nil
}

// ColumnMajor flattens p into a 4x4 homogeneous transform in
// column-major order.
func (p Pose) ColumnMajor() [16]float64 {
	var a [16]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a[4*j+i] = p.M[3*i+j]
		}
		a[12+i] = p.V[i]
	}
	a[15] = 1
	return a
}

// PoseFromQuat builds a pose from a position and an orientation
// quaternion. The quaternion is normalized first.
func PoseFromQuat(pos r3.Vector, q quat.Number) (Pose, error) {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Pose{}, errors.Wrap(ErrNotRotation, "zero quaternion")
	}
	q = quat.Scale(1/n, q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return Pose{
		M: geom.M(
			1-2*(y*y+z*z), 2*(x*y-w*z), 2*(x*z+w*y),
			2*(x*y+w*z), 1-2*(x*x+z*z), 2*(y*z-w*x),
			2*(x*z-w*y), 2*(y*z+w*x), 1-2*(x*x+y*y),
		),
		V: geom.V(pos.X, pos.Y, pos.Z),
	}, nil
}

func jointsFromSlice(a []float64) (Joints, error) {
	var q Joints
	if len(a) != NumJoints {
		return q, errors.Wrapf(ErrBadLength, "joint array has %d elements, want %d", len(a), NumJoints)
	}
	copy(q[:], a)
	return q, nil
}

// SolveFlat is Solve over flat arrays: a 16 element column-major
// pose and a 7 element reference. Only wrong lengths are errors; a
// pose that is not rigid yields four Invalid solutions.
func SolveFlat(pose []float64, q7 float64, ref []float64) ([NumCases]Joints, error) {
	all := [NumCases]Joints{Invalid, Invalid, Invalid, Invalid}
	q, err := jointsFromSlice(ref)
	if err != nil {
		return all, err
	}
	p, err := FromColumnMajor(pose)
	if errors.Is(err, ErrNotRotation) {
		return all, nil
	} else if err != nil {
		return all, err
	}
	return Solve(p, q7, q), nil
}

// SolveCCFlat is SolveCC over flat arrays. Only wrong lengths are
// errors.
func SolveCCFlat(pose []float64, q7 float64, ref []float64) (Joints, error) {
	q, err := jointsFromSlice(ref)
	if err != nil {
		return Invalid, err
	}
	p, err := FromColumnMajor(pose)
	if errors.Is(err, ErrNotRotation) {
		return Invalid, nil
	} else if err != nil {
		return Invalid, err
	}
	return SolveCC(p, q7, q), nil
}
