// pandaik solves Franka Panda inverse kinematics from the command line.
//
// Usage:
//
//	pandaik solve --position=x,y,z --quat=w,x,y,z --q7=<rad> [--ref=q1,...,q7] [--cc]
//	pandaik solve --matrix=<16 column-major values> --q7=<rad>
//	pandaik batch <jobs.yaml> [--parallel=n]
//	pandaik forward --joints=q1,...,q7
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zappem.net/pub/kinematics/panda"
)

var rootFlags struct {
	debug    bool
	markdown bool
}

// logger is set up before any subcommand runs.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "pandaik",
	Short: "Closed-form inverse kinematics for the Franka Panda",
	Long: "pandaik solves the Franka Panda arm's inverse kinematics in closed form,\n" +
		"with joint 7 as the free parameter, for single poses or YAML job files.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(*cobra.Command, []string) error {
		l, err := newLogger(rootFlags.debug)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.BoolVar(&rootFlags.debug, "debug", false, "log at debug level")
	f.BoolVar(&rootFlags.markdown, "markdown", false, "print tables as markdown")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(forwardCmd)
	rootCmd.Version = panda.Version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
