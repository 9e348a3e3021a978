package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/okian/attrition/internal/domain/features"
)

func (cl *commandline) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "List the input fields in feature-vector order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "Field", "Label", "Kind", "Range", "Default"})
			table.SetAutoWrapText(false)
			for i, s := range features.Schema() {
				table.Append([]string{
					strconv.Itoa(i),
					s.Name,
					s.Label,
					s.Kind.String(),
					rangeOf(s),
					fmt.Sprint(s.Default),
				})
			}
			table.Render()
			return nil
		},
	}
}

func (cl *commandline) encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Show the feature vector a record assembles to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := inputFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			vec, err := features.Assemble(in)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"#", "Field", "Value", "Encoded"})
			for i, s := range features.Schema() {
				table.Append([]string{
					strconv.Itoa(i),
					s.Name,
					fmt.Sprint(in[s.Name]),
					strconv.FormatFloat(vec[i], 'f', -1, 64),
				})
			}
			table.Render()
			return nil
		},
	}
	addFieldFlags(cmd.Flags())
	return cmd
}

func rangeOf(s features.Spec) string {
	switch {
	case !s.Numeric():
		return strings.Join(s.Categories.Values(), " | ")
	case s.Unbounded():
		return fmt.Sprintf(">= %g", s.Min)
	default:
		return fmt.Sprintf("%g-%g", s.Min, s.Max)
	}
}
