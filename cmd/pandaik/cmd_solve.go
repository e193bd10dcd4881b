package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zappem.net/pub/kinematics/panda/internal/jobs"
)

var solveFlags struct {
	name     string
	matrix   []float64
	position []float64
	quat     []float64
	q7       float64
	ref      []float64
	cc       bool
	degrees  bool
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one pose",
	Long: "Solve one end-effector pose, given either as a column-major 4x4 matrix\n" +
		"or as a position and a [w x y z] quaternion. Without --cc every case is\n" +
		"printed; unsolvable cases show as dashes.",
	Args: cobra.NoArgs,
	RunE: runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.StringVar(&solveFlags.name, "name", "pose", "label for the output row")
	f.Float64SliceVar(&solveFlags.matrix, "matrix", nil, "16 column-major transform values")
	f.Float64SliceVar(&solveFlags.position, "position", nil, "x,y,z in meters")
	f.Float64SliceVar(&solveFlags.quat, "quat", nil, "w,x,y,z orientation")
	f.Float64Var(&solveFlags.q7, "q7", 0, "joint 7 angle")
	f.Float64SliceVar(&solveFlags.ref, "ref", nil, "reference joints q1..q7")
	f.BoolVar(&solveFlags.cc, "cc", false, "only the reference's configuration case")
	f.BoolVar(&solveFlags.degrees, "degrees", false, "q7 and reference are in degrees")
}

func runSolve(cmd *cobra.Command, _ []string) error {
	j := jobs.Job{
		Name:       solveFlags.name,
		Matrix:     solveFlags.matrix,
		Position:   solveFlags.position,
		Quaternion: solveFlags.quat,
		Q7:         solveFlags.q7,
		Reference:  solveFlags.ref,
		Degrees:    solveFlags.degrees,
		Mode:       jobs.ModeAll,
	}
	if solveFlags.cc {
		j.Mode = jobs.ModeCC
	}
	if err := j.Validate(); err != nil {
		return err
	}

	r := jobs.Solve(j)
	if r.Err != nil {
		return r.Err
	}
	logger.Debug("solved", zap.Stringer("job", j), zap.Int("valid", r.Valid()), zap.Duration("elapsed", r.Elapsed))
	fmt.Fprintln(cmd.OutOrStdout(), jobs.Render([]jobs.Result{r}, rootFlags.markdown))
	return nil
}
