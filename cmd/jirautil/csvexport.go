package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costa-amore/JiraUtil-sub000/internal/csvexport"
)

var csvOutput string

var csvExportCmd = &cobra.Command{
	Use:     "csv-export",
	Aliases: []string{"ce"},
	Short:   "Clean up CSV files exported from Jira",
}

var removeNewlinesCmd = &cobra.Command{
	Use:     "remove-newlines <input.csv>",
	Aliases: []string{"rn"},
	Short:   "Replace line breaks inside fields with spaces",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := csvexport.OutputPath(args[0], csvOutput, "-no-newlines")
		if err := csvexport.RemoveNewlinesFile(args[0], output); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Newlines removed from CSV. Output saved to %s\n", output)
		return nil
	},
}

var extractListCmd = &cobra.Command{
	Use:     "extract-to-comma-separated-list <field> <input.csv>",
	Aliases: []string{"ecl"},
	Short:   "Write the distinct values of a column as a comma separated list",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, input := args[0], args[1]
		path, count, err := csvexport.ExtractFieldValuesFile(input, field)
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Fprintf(cmd.OutOrStdout(),
				"Warning: '%s' column not found in header or no values found.\n", field)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Found %d unique %s values. Written to %s\n", count, field, path)
		return nil
	},
}

var fixDatesCmd = &cobra.Command{
	Use:     "fix-dates-eu <input.csv>",
	Aliases: []string{"fd"},
	Short:   "Rewrite Created and Updated as dd/mm/yyyy HH:MM:SS",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := csvexport.OutputPath(args[0], csvOutput, "-eu-dates")
		if err := csvexport.FixDatesEUFile(args[0], output); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dates converted for European Excel. Output saved to %s\n", output)
		return nil
	},
}

func init() {
	removeNewlinesCmd.Flags().StringVarP(&csvOutput, "output", "o", "", "Output file")
	fixDatesCmd.Flags().StringVarP(&csvOutput, "output", "o", "", "Output file")

	csvExportCmd.AddCommand(removeNewlinesCmd, extractListCmd, fixDatesCmd)
	rootCmd.AddCommand(csvExportCmd)
}
