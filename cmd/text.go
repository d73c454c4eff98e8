package cmd

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/btraven00/twtext/internal/extractor"
)

var (
	outputFile string
	textInput  string
)

// textCmd represents the text command
var textCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "Print the plain text that extraction sees for a file",
	Long: `Convert a file to the plain text that "twtext extract --file" scans.

Markdown is flattened to its text with link destinations kept next to their
labels, and documents (PDF, DOCX, ODT, RTF, HTML) are converted with their
layout removed.

Examples:
  twtext text thread.md
  twtext text --output thread.txt paper.pdf
  twtext text --input markdown notes`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringVar(&outputFile, "output-file", "", "output file (default: stdout)")
	textCmd.Flags().StringVar(&textInput, "input", "auto", "input file format (auto, text, markdown, doc)")
}

func runText(cmd *cobra.Command, args []string) error {
	filename := args[0]

	format, err := extractor.ParseInputFormat(textInput)
	if err != nil {
		return err
	}
	if format == extractor.InputAuto {
		format = extractor.DetectInputFormat(filename)
	}

	status("Converting %s (%s) to text...\n", filename, format)

	// Check if file exists and is readable
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	text, err := extractor.LoadText(filename, format)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", filename, err)
	}

	// Output to file or stdout
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		status("Converted text written to %s (%d characters)\n", outputFile, utf8.RuneCountInString(text))
		return nil
	}

	return writeText(cmd.OutOrStdout(), text)
}

func writeText(w io.Writer, text string) error {
	if _, err := io.WriteString(w, text); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
