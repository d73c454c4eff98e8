package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"

	"github.com/btraven00/twtext/internal/extractor"
	"github.com/btraven00/twtext/pkg/config"
)

var debugCmd = &cobra.Command{
	Use:   "debug <text>",
	Short: "Show how each character of a message is weighted",
	Long: `Display the weight of every user-perceived character of a message under
the selected configuration, without shortening links.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)
}

// charWeight is the weight of one grapheme cluster.
type charWeight struct {
	Text       string
	CodePoints []rune
	Weight     int64
}

func runDebug(cmd *cobra.Command, args []string) error {
	weights, err := loadWeights()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	chars := weighCharacters(text, weights)
	printWeights(cmd.OutOrStdout(), text, chars, weights)
	return nil
}

// weighCharacters splits text into grapheme clusters and weighs each one on
// its own.
func weighCharacters(text string, weights *config.Configuration) []charWeight {
	options := extractor.DefaultOptions()
	options.Normalize = false
	v := extractor.NewValidating(weights, options)

	var chars []charWeight
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		chars = append(chars, charWeight{
			Text:       g.Str(),
			CodePoints: g.Runes(),
			Weight:     v.Parse(g.Str(), false).WeightedSum,
		})
	}
	return chars
}

func printWeights(w io.Writer, text string, chars []charWeight, weights *config.Configuration) {
	fmt.Fprintf(w, "=== Weights (v%d, scale %d) ===\n", weights.Version, weights.Scale)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Char", "Code points", "Weight"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	var total int64
	for _, c := range chars {
		points := make([]string, len(c.CodePoints))
		for i, r := range c.CodePoints {
			points[i] = fmt.Sprintf("U+%04X", r)
		}
		table.Append([]string{strconv.Quote(c.Text), strings.Join(points, " "), strconv.FormatInt(c.Weight, 10)})
		total += c.Weight
	}
	table.Render()

	scale := int64(weights.Scale)
	if scale <= 0 {
		scale = 1
	}
	fmt.Fprintf(w, "\nTotal: %d (%d characters)\n", total, total/scale)

	if verbose {
		parse := extractor.NewValidating(weights, extractor.DefaultOptions()).Parse(text, true)
		fmt.Fprintf(w, "With links shortened: %d characters\n", parse.WeightedLength)
	}
}
