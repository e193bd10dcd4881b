package panda

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Err* are the errors exported by this package.
var (
	ErrNoSolution  = errors.New("no inverse kinematics solution")
	ErrBadLength   = errors.New("wrong number of elements")
	ErrNotRotation = errors.New("pose basis is not a rotation")
)

// Closest picks the valid solution nearest to ref from a list of
// candidates. All joints are weighted equally.
func Closest(ref Joints, qs []Joints) (int, error) {
	best := -1
	var bestD float64
	for i, q := range qs {
		if !q.IsValid() {
			continue
		}
		d := floats.Distance(q[:], ref[:], 2)
		if best == -1 || d < bestD {
			best = i
			bestD = d
		}
	}
	if best != -1 {
		return best, nil
	}
	return best, ErrNoSolution
}
