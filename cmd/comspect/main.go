// Command comspect inspects and exercises comrt object models: it
// validates manifests, runs the canonical aggregation demo and offers
// an interactive instance explorer.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lemonbalms/comrt/object"
	"github.com/lemonbalms/comrt/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "comspect",
		Short:         "Inspect and exercise comrt object models",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err == nil {
					object.SetLogger(logger)
					registry.SetLogger(logger)
				}
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log query and refcount events")

	root.AddCommand(newInspectCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newReplCmd())
	return root
}
