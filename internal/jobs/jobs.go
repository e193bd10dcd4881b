// Package jobs reads batches of inverse kinematics requests from YAML
// and solves them.
package jobs

import (
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"
	"gopkg.in/yaml.v3"
	"zappem.net/pub/math/geom"

	"zappem.net/pub/kinematics/panda"
)

// Mode selects which solver a job uses.
type Mode string

// Solver modes.
const (
	ModeAll Mode = "all" // every case
	ModeCC  Mode = "cc"  // the reference's case only
)

// File is a job file.
type File struct {
	// Parallel bounds how many jobs are solved at once. Zero means
	// one at a time.
	Parallel int   `yaml:"parallel"`
	Jobs     []Job `yaml:"jobs"`
}

// Job is one pose to solve. The pose is either Matrix, a 16 element
// column-major homogeneous transform, or Position with Quaternion
// ([w x y z]).
type Job struct {
	Name       string    `yaml:"name"`
	Matrix     []float64 `yaml:"matrix,omitempty"`
	Position   []float64 `yaml:"position,omitempty"`
	Quaternion []float64 `yaml:"quaternion,omitempty"`
	Q7         float64   `yaml:"q7"`
	Reference  []float64 `yaml:"reference,omitempty"`
	// Degrees marks Q7 and Reference as degrees.
	Degrees bool `yaml:"degrees,omitempty"`
	Mode    Mode `yaml:"mode,omitempty"`
}

// Parse decodes and validates a job file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse job file")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses the job file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Parse(data)
}

// Validate reports every problem with the file at once.
func (f *File) Validate() error {
	var err error
	if f.Parallel < 0 {
		err = multierr.Append(err, errors.Errorf("parallel %d is negative", f.Parallel))
	}
	if len(f.Jobs) == 0 {
		err = multierr.Append(err, errors.New("no jobs"))
	}
	for i, j := range f.Jobs {
		if jerr := j.Validate(); jerr != nil {
			err = multierr.Append(err, errors.Wrapf(jerr, "job %d (%s)", i, j.Name))
		}
	}
	return err
}

// Validate checks the shape of a job. Whether the pose is a rigid
// transform is left to the solver.
func (j Job) Validate() error {
	var err error
	switch {
	case len(j.Matrix) != 0 && (len(j.Position) != 0 || len(j.Quaternion) != 0):
		err = multierr.Append(err, errors.New("give matrix or position and quaternion, not both"))
	case len(j.Matrix) != 0:
		if len(j.Matrix) != 16 {
			err = multierr.Append(err, errors.Errorf("matrix has %d elements, want 16", len(j.Matrix)))
		}
	default:
		if len(j.Position) != 3 {
			err = multierr.Append(err, errors.Errorf("position has %d elements, want 3", len(j.Position)))
		}
		if len(j.Quaternion) != 4 {
			err = multierr.Append(err, errors.Errorf("quaternion has %d elements, want 4", len(j.Quaternion)))
		}
	}
	if len(j.Reference) != 0 && len(j.Reference) != panda.NumJoints {
		err = multierr.Append(err, errors.Errorf("reference has %d elements, want %d", len(j.Reference), panda.NumJoints))
	}
	switch j.Mode {
	case "", ModeAll:
	case ModeCC:
		if len(j.Reference) == 0 {
			err = multierr.Append(err, errors.New("mode cc needs a reference"))
		}
	default:
		err = multierr.Append(err, errors.Errorf("unknown mode %q", j.Mode))
	}
	return err
}

// Pose returns the target pose of the job. A matrix that is not a
// rigid transform is returned along with panda.ErrNotRotation.
func (j Job) Pose() (panda.Pose, error) {
	if len(j.Matrix) != 0 {
		return panda.FromColumnMajor(j.Matrix)
	}
	if len(j.Position) != 3 || len(j.Quaternion) != 4 {
		return panda.Pose{}, panda.ErrBadLength
	}
	pos := r3.Vector{X: j.Position[0], Y: j.Position[1], Z: j.Position[2]}
	q := quat.Number{Real: j.Quaternion[0], Imag: j.Quaternion[1], Jmag: j.Quaternion[2], Kmag: j.Quaternion[3]}
	return panda.PoseFromQuat(pos, q)
}

func radians(a float64, degrees bool) float64 {
	if degrees {
		return geom.Degrees(a).Rad()
	}
	return a
}

// Inputs returns q7 and the reference joints in radians.
func (j Job) Inputs() (float64, panda.Joints) {
	var ref panda.Joints
	for i := 0; i < len(j.Reference) && i < panda.NumJoints; i++ {
		ref[i] = radians(j.Reference[i], j.Degrees)
	}
	return radians(j.Q7, j.Degrees), ref
}

func (j Job) String() string {
	if j.Name != "" {
		return j.Name
	}
	return fmt.Sprintf("q7=%g", j.Q7)
}
