package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"zappem.net/pub/math/geom"

	"zappem.net/pub/kinematics/panda"
)

var forwardFlags struct {
	joints  []float64
	degrees bool
}

var forwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Print the end-effector pose of a joint configuration",
	Long: "Print the end-effector pose of a joint configuration as the 16\n" +
		"column-major values solve --matrix accepts, and its configuration case.",
	Args: cobra.NoArgs,
	RunE: runForward,
}

func init() {
	f := forwardCmd.Flags()
	f.Float64SliceVar(&forwardFlags.joints, "joints", nil, "q1..q7")
	f.BoolVar(&forwardFlags.degrees, "degrees", false, "joints are in degrees")
	_ = forwardCmd.MarkFlagRequired("joints")
}

func runForward(cmd *cobra.Command, _ []string) error {
	if len(forwardFlags.joints) != panda.NumJoints {
		return errors.Wrapf(panda.ErrBadLength, "got %d joints, want %d", len(forwardFlags.joints), panda.NumJoints)
	}
	var q panda.Joints
	for i, a := range forwardFlags.joints {
		if forwardFlags.degrees {
			a = geom.Degrees(a).Rad()
		}
		q[i] = a
	}
	if !q.WithinLimits() {
		logger.Warn("joints outside limits", zap.Float64s("joints", q[:]))
	}

	a := panda.ForwardPose(q).ColumnMajor()
	out := cmd.OutOrStdout()
	for i, x := range a {
		if i != 0 {
			fmt.Fprint(out, ",")
		}
		fmt.Fprintf(out, "%.12g", x)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "case: %v\n", panda.CaseOf(q))
	return nil
}
