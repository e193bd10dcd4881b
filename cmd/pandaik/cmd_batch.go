package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zappem.net/pub/kinematics/panda/internal/jobs"
)

var batchFlags struct {
	parallel int
}

var batchCmd = &cobra.Command{
	Use:   "batch <jobs.yaml>",
	Short: "Solve every job in a YAML job file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.IntVar(&batchFlags.parallel, "parallel", 0, "jobs solved at once; overrides the file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file, err := jobs.Load(args[0])
	if err != nil {
		return err
	}
	parallel := file.Parallel
	if batchFlags.parallel > 0 {
		parallel = batchFlags.parallel
	}
	logger.Info("running batch",
		zap.String("file", args[0]),
		zap.Int("jobs", len(file.Jobs)),
		zap.Int("parallel", parallel),
	)

	rs, err := jobs.Run(cmd.Context(), logger, file.Jobs, parallel)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), jobs.Render(rs, rootFlags.markdown))

	failed := 0
	for _, r := range rs {
		if r.Err != nil {
			failed++
		}
	}
	if failed != 0 {
		return errors.Errorf("%d of %d jobs failed", failed, len(rs))
	}
	return nil
}
