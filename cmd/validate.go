package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/btraven00/twtext/pkg/validators"
)

var (
	validateKind  string
	validateStdin bool
	validateAll   bool
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [input...]",
	Short: "Validate usernames, lists, hashtags, URLs or whole messages",
	Long: `Validate checks every argument on its own. With --kind auto the kind is
picked from the input: "@name/slug" is a list, "@name" a username, "#tag" a
hashtag, "https://..." a URL, "example.com" a URL without protocol, and
anything else a whole message.

Examples:
  twtext validate @alice "#golang" https://example.com
  twtext validate --kind tweet "Hello @alice, see https://example.com"
  twtext validate --all @alice/team
  twtext validate --stdin --kind username < handles.txt`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "auto", "input kind (auto, tweet, username, list, hashtag, url, url_without_protocol)")
	validateCmd.Flags().BoolVar(&validateStdin, "stdin", false, "read inputs from stdin, one per line")
	validateCmd.Flags().BoolVar(&validateAll, "all", false, "report every kind that accepts the input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	weights, err := loadWeights()
	if err != nil {
		return err
	}
	registry := validators.NewDefaultRegistry(validators.NewWithConfig(weights))

	inputs := append([]string{}, args...)
	if validateStdin {
		messages, err := readMessages(context.Background(), nil, cmd.InOrStdin(), inputOptions{stdin: true, lines: true})
		if err != nil {
			return err
		}
		for _, msg := range messages {
			inputs = append(inputs, msg.Text)
		}
	}
	if len(inputs) == 0 {
		return errNoInput
	}

	ctx := context.Background()
	kind := strings.ToLower(validateKind)

	var results []*validators.ValidationResult
	for _, input := range inputs {
		found, err := validateInput(ctx, registry, kind, input)
		if err != nil {
			return err
		}
		results = append(results, found...)
	}

	if err := outputValidation(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	invalid := 0
	for _, res := range results {
		if !res.Valid {
			invalid++
		}
	}
	if invalid > 0 && !validateAll {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d of %d inputs are not valid", invalid, len(results))
	}
	return nil
}

func validateInput(ctx context.Context, registry *validators.Registry, kind, input string) ([]*validators.ValidationResult, error) {
	switch {
	case kind != "auto" && kind != "":
		res, err := registry.Validate(ctx, kind, input)
		if err != nil {
			return nil, fmt.Errorf("cannot validate %q: %w", input, err)
		}
		return []*validators.ValidationResult{res}, nil
	case validateAll:
		return registry.ValidateWithAll(ctx, input)
	default:
		res, err := registry.ValidateWithBest(ctx, input)
		if err != nil {
			return nil, err
		}
		return []*validators.ValidationResult{res}, nil
	}
}

func outputValidation(w io.Writer, results []*validators.ValidationResult) error {
	switch outputFormat() {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "human", "":
		for _, res := range results {
			mark, verdict := "✅", color.GreenString(res.Message)
			if !res.Valid {
				mark, verdict = "❌", color.RedString(res.Message)
			}
			fmt.Fprintf(w, "%s %s: %s\n", mark, res.Input, verdict)
			if verbose && res.Parse != nil {
				fmt.Fprintf(w, "   Weighted length: %d, entities: %d\n", res.Parse.WeightedLength, len(res.Entities))
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat())
	}
}
