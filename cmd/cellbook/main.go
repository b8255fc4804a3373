package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/cellbook"
)

type globalFlags struct {
	configPath string
	logFile    string
	stateDir   string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:           "cellbook",
		Short:         "Terminal viewer for Jupyter notebooks",
		Long:          `cellbook renders .ipynb notebooks as a foldable list of cells.`,
		Version:       cellbook.Describe(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config.toml (default: user config dir)")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write JSON debug logs to this file")
	root.PersistentFlags().StringVar(&flags.stateDir, "state-dir", "", "directory for saved view state (default: user cache dir)")

	root.AddCommand(newViewCmd(&flags))
	root.AddCommand(newStatCmd(&flags))
	root.AddCommand(newVersionCmd())
	return root
}

var errorColor = color.New(color.FgRed, color.Bold)

// main executes the root command and exits with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorColor.Sprint("error:"), err)
		os.Exit(1)
	}
}
