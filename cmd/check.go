package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btraven00/twtext/internal/checker"
	"github.com/btraven00/twtext/internal/extractor"
)

var (
	checkFiles      []string
	checkStdin      bool
	checkLines      bool
	checkFederated  bool
	checkNoBareURLs bool
	checkInput      string
	checkStrict     bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text...]",
	Short: "Report the weighted length and entities of a message",
	Long: `Check measures a message against the weighted length limit and breaks
the cost down per entity. Links are charged the length of their shortened form
and, from v3 on, every emoji sequence counts as a single character.

When a message is too long, the part that still fits is shown.

Examples:
  twtext check "Hello @alice, see https://example.com #news"
  twtext check --preset v1 "A message for the old limit"
  twtext check --stdin --lines --strict < drafts.txt`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	weights, err := loadWeights()
	if err != nil {
		return err
	}

	format, err := extractor.ParseInputFormat(checkInput)
	if err != nil {
		return err
	}

	messages, err := readMessages(context.Background(), args, cmd.InOrStdin(), inputOptions{
		files:  checkFiles,
		stdin:  checkStdin,
		lines:  checkLines,
		format: format,
	})
	if err != nil {
		return err
	}

	if verbose {
		status("Checking %d message(s) with configuration v%d\n", len(messages), weights.Version)
		status("Output format: %s\n", outputFormat())
	}

	// Create checker configuration
	config := checker.Config{
		Writer:       cmd.OutOrStdout(),
		OutputFormat: outputFormat(),
		Verbose:      verbose,
		Federated:    checkFederated,
		BareURLs:     !checkNoBareURLs,
	}
	c := checker.New(config, weights)

	invalid := 0
	for i, msg := range messages {
		result, err := c.Check(msg.Text)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", msg.label(), err)
		}
		if !result.Valid {
			invalid++
		}

		if len(messages) > 1 && config.OutputFormat != "json" {
			if i > 0 {
				fmt.Fprintln(config.Writer)
			}
			fmt.Fprintf(config.Writer, "📄 %s\n", msg.label())
		}
		if err := c.OutputResult(result); err != nil {
			return fmt.Errorf("failed to output result: %w", err)
		}
	}

	if checkStrict && invalid > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d of %d messages are not valid", invalid, len(messages))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringSliceVarP(&checkFiles, "file", "f", nil, "read messages from files")
	checkCmd.Flags().BoolVar(&checkStdin, "stdin", false, "read messages from stdin")
	checkCmd.Flags().BoolVar(&checkLines, "lines", false, "treat every line as a separate message")
	checkCmd.Flags().BoolVar(&checkFederated, "federated", false, "include federated mentions (@user@domain)")
	checkCmd.Flags().BoolVar(&checkNoBareURLs, "no-bare-urls", false, "only extract URLs with an explicit protocol")
	checkCmd.Flags().StringVar(&checkInput, "input", "auto", "input file format (auto, text, markdown, doc)")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit with an error when a message is not valid")
}
