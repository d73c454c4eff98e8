package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/btraven00/twtext/internal/tld"
)

var (
	tldList     bool
	tldListFile string
)

// tldCmd represents the tld command
var tldCmd = &cobra.Command{
	Use:   "tld [label...]",
	Short: "Check labels against the top-level domain list",
	Long: `Check whether labels are known top-level domains. Native-script labels
are matched in both their Unicode and punycode spelling.

Examples:
  twtext tld com みんな xn--q9jyb4c notatld
  twtext tld --list
  twtext tld --list-file my-tlds.yml --list`,
	RunE: runTLD,
}

func init() {
	rootCmd.AddCommand(tldCmd)

	tldCmd.Flags().BoolVar(&tldList, "list", false, "print every registered key")
	tldCmd.Flags().StringVar(&tldListFile, "list-file", "", "YAML list with country and generic keys to use instead of the built-in list")
}

// tldMatch is the verdict for one label.
type tldMatch struct {
	Label  string `json:"label"`
	Match  bool   `json:"match"`
	Prefix string `json:"prefix,omitempty"`
}

func runTLD(cmd *cobra.Command, args []string) error {
	if !tldList && len(args) == 0 {
		return errors.New("pass at least one label or --list")
	}

	matcher, err := loadMatcher(tldListFile)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if tldList {
		return listTLDs(w, matcher)
	}

	matches := make([]tldMatch, 0, len(args))
	for _, label := range args {
		label = strings.TrimPrefix(label, ".")
		matches = append(matches, tldMatch{
			Label:  label,
			Match:  matcher.Matches(label),
			Prefix: matcher.HasPrefixTLD(label),
		})
	}
	return outputTLDMatches(w, matches)
}

func loadMatcher(path string) (*tld.Matcher, error) {
	if path == "" {
		return tld.Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read TLD list: %w", err)
	}
	list, err := tld.ParseList(data)
	if err != nil {
		return nil, err
	}
	status("Loaded %d labels from %s\n", len(list.Labels()), path)
	return tld.New(list.Labels()), nil
}

func listTLDs(w io.Writer, matcher *tld.Matcher) error {
	keys := matcher.Keys()
	if outputFormat() == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(keys)
	}

	for _, key := range keys {
		fmt.Fprintln(w, key)
	}
	status("%d keys\n", matcher.Len())
	return nil
}

func outputTLDMatches(w io.Writer, matches []tldMatch) error {
	switch outputFormat() {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(matches)
	case "human", "":
		for _, m := range matches {
			switch {
			case m.Match:
				fmt.Fprintf(w, "✅ %s: %s\n", m.Label, color.GreenString("top-level domain"))
			case m.Prefix != "":
				fmt.Fprintf(w, "⚠️  %s: %s\n", m.Label, color.YellowString("starts with top-level domain %q", m.Prefix))
			default:
				fmt.Fprintf(w, "❌ %s: %s\n", m.Label, color.RedString("unknown"))
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat())
	}
}
