package commands

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isotest/iso-testgen/internal/fieldgen"
	"github.com/isotest/iso-testgen/pkg/types"
)

func newClassifyCmd(a *app) *cobra.Command {
	var format, fieldType string

	cmd := &cobra.Command{
		Use:   "classify <name> <length>",
		Short: "Show how a field would be classified",
		Long: `Print whether a field with the given name and length is treated as a
date/time field and which format tag it gets. With --format and --type the
full shape used for generation is printed as well.

Examples:
  iso-testgen classify TransmissionDateTime 10
  iso-testgen classify PAN 19 --format llvar --type numeric`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			length, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid length %q: %w", args[1], err)
			}

			out := cmd.OutOrStdout()
			name := args[0]

			if fieldgen.IsDateTimeField(name, length) {
				tag, _ := fieldgen.DateTimeFormat(length)
				fmt.Fprintf(out, "date/time: yes (format %s)\n", tag)
			} else {
				fmt.Fprintln(out, "date/time: no")
			}

			if format == "" && fieldType == "" {
				return nil
			}
			if format != "" && !slices.Contains(fieldgen.Formats(), format) {
				return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(fieldgen.Formats(), ", "))
			}
			if fieldType != "" && !slices.Contains(fieldgen.Types(), fieldType) {
				return fmt.Errorf("unknown type %q (want one of %s)", fieldType, strings.Join(fieldgen.Types(), ", "))
			}

			def := types.FieldDefinition{Format: format, Type: fieldType, Name: name}
			switch format {
			case types.FormatLLVar, types.FormatLLLVar:
				def.MaxLength = types.IntPtr(length)
			default:
				def.Length = types.IntPtr(length)
			}
			if err := a.validator.CheckDefinition(def); err != nil {
				return err
			}

			shape := fieldgen.Classify(def)
			fmt.Fprintf(out, "format: %s\ntype: %s\nvariable: %t\n", shape.Format, shape.Type, shape.Variable())
			if shape.Variable() {
				fmt.Fprintf(out, "length indicator: %d digits\n", shape.PrefixWidth)
			}
			if allowed, ok := fieldgen.AllowedChars(shape.Type); ok {
				fmt.Fprintf(out, "allowed characters: %s\n", allowed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "field format: "+strings.Join(fieldgen.Formats(), ", "))
	cmd.Flags().StringVar(&fieldType, "type", "", "field type: "+strings.Join(fieldgen.Types(), ", "))

	return cmd
}
