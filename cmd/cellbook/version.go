package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/cellbook"
)

func newVersionCmd() *cobra.Command {
	var tagOnly bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the cellbook version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tagOnly {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cellbook.Tag())
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cellbook %s\n", cellbook.Describe())
			return err
		},
	}
	cmd.Flags().BoolVar(&tagOnly, "tag", false, "print only the git tag form")
	return cmd
}
