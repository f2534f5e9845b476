package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vsbuffalo/slper/internal/slim"
)

func newParamsCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:     "params <input-file>",
		Short:   "Print the simulation parameter header as JSON",
		Example: `  slper params sim.txt`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(cmd, args[0], compact)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on a single line")

	return cmd
}

func runParams(cmd *cobra.Command, input string, compact bool) error {
	rc, err := slim.Open(input)
	if err != nil {
		return err
	}
	defer rc.Close()

	ps, err := slim.ReadParams(rc)
	if err != nil {
		return err
	}

	var out []byte
	if compact {
		out, err = json.Marshal(ps)
	} else {
		out, err = json.MarshalIndent(ps, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling params: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
