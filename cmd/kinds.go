package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/btraven00/twtext/internal/extractor"
	"github.com/btraven00/twtext/pkg/validators"
)

var (
	showExamples bool
	showEntities bool
)

// kindsCmd represents the kinds command
var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the input kinds understood by validate",
	Long: `The kinds command lists the validators used by "twtext validate".

With --kind auto the first kind in this list that accepts an input decides,
so kinds are shown in the order they are tried. With --entities the entity
types found by "twtext extract" are listed instead, in scanning priority.

Examples:
  twtext kinds
  twtext kinds --examples
  twtext kinds --entities --examples
  twtext kinds --output json`,
	Args: cobra.NoArgs,
	RunE: runKinds,
}

func init() {
	rootCmd.AddCommand(kindsCmd)

	kindsCmd.Flags().BoolVar(&showExamples, "examples", false, "show example inputs for each kind")
	kindsCmd.Flags().BoolVar(&showEntities, "entities", false, "list the entity types extract recognizes")
}

func runKinds(cmd *cobra.Command, args []string) error {
	if showEntities {
		return outputEntityRules(cmd.OutOrStdout(), extractor.Rules())
	}
	registry := validators.NewDefaultRegistry(validators.New())
	return outputKinds(cmd.OutOrStdout(), registry.ListValidators())
}

func outputKinds(w io.Writer, info []validators.ValidatorInfo) error {
	if outputFormat() == "json" {
		out := struct {
			Kinds []validators.ValidatorInfo `json:"kinds"`
			Count int                        `json:"count"`
		}{
			Kinds: info,
			Count: len(info),
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Fprintf(w, "Available kinds (%d):\n\n", len(info))

	table := tablewriter.NewWriter(w)
	header := []string{"Kind", "Priority", "Description"}
	if showExamples {
		header = append(header, "Examples")
	}
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, kind := range info {
		row := []string{kind.Name, strconv.Itoa(kind.Priority), kind.Description}
		if showExamples {
			row = append(row, strings.Join(kind.Examples, ", "))
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

func outputEntityRules(w io.Writer, rules []extractor.EntityRule) error {
	if outputFormat() == "json" {
		out := struct {
			Entities []extractor.EntityRule `json:"entities"`
			Count    int                    `json:"count"`
		}{
			Entities: rules,
			Count:    len(rules),
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Fprintf(w, "Entity types (%d):\n\n", len(rules))

	table := tablewriter.NewWriter(w)
	header := []string{"Name", "Type", "Trigger", "Description"}
	if showExamples {
		header = append(header, "Examples", "Not matched")
	}
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, rule := range rules {
		row := []string{rule.Name, string(rule.Type), rule.Trigger, rule.Description}
		if showExamples {
			row = append(row, strings.Join(rule.Examples, ", "), strings.Join(rule.Counterexamples, ", "))
		}
		table.Append(row)
	}
	table.Render()
	return nil
}
