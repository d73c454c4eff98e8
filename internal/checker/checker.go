package checker

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/btraven00/twtext/internal/extractor"
	"github.com/btraven00/twtext/pkg/config"
)

// Config holds configuration for the checker.
type Config struct {
	Writer       io.Writer
	OutputFormat string
	Verbose      bool
	Federated    bool
	BareURLs     bool
}

// DefaultConfig returns a human-readable checker writing to stdout.
func DefaultConfig() Config {
	return Config{
		Writer:       os.Stdout,
		OutputFormat: "human",
		BareURLs:     true,
	}
}

// EntityCost is an entity with the weight its text carries on its own.
type EntityCost struct {
	extractor.Entity
	Weight int64 `json:"weight"`
	Length int   `json:"length"`
}

// Result is the full report on one message.
type Result struct {
	Text          string                 `json:"text"`
	ConfigVersion int32                  `json:"config_version"`
	MaxLength     int32                  `json:"max_length"`
	Parse         extractor.ParseResults `json:"parse"`
	Entities      []EntityCost           `json:"entities"`
	Remaining     int                    `json:"remaining"`
	ValidPrefix   string                 `json:"valid_prefix,omitempty"`
	Error         string                 `json:"error,omitempty"`
	ProcessTime   time.Duration          `json:"process_time"`
	Valid         bool                   `json:"valid"`
}

// Checker combines extraction and weighting into a single report.
type Checker struct {
	config     Config
	weights    *config.Configuration
	validating *extractor.ValidatingExtractor
}

// New creates a Checker that weighs messages with weights.
func New(cfg Config, weights *config.Configuration) *Checker {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if weights == nil {
		weights = config.Default()
	}

	options := extractor.DefaultOptions()
	options.ExtractURLsWithoutProtocol = cfg.BareURLs

	return &Checker{
		config:     cfg,
		weights:    weights,
		validating: extractor.NewValidating(weights, options),
	}
}

// Check measures text and breaks the cost down per entity.
func (c *Checker) Check(text string) (*Result, error) {
	start := time.Now()

	result := &Result{
		Text:          text,
		ConfigVersion: c.weights.Version,
		MaxLength:     c.weights.MaxWeightedTweetLength,
	}

	var extracted extractor.ExtractResult
	if c.config.Federated {
		extracted = c.validating.ExtractFederatedEntitiesWithIndices(text)
	} else {
		extracted = c.validating.ExtractEntitiesWithIndices(text)
	}

	result.Parse = extracted.ParseResults
	result.Valid = extracted.ParseResults.IsValid
	result.Remaining = int(c.weights.MaxWeightedTweetLength) - extracted.ParseResults.WeightedLength

	result.Entities = make([]EntityCost, 0, len(extracted.Entities))
	for _, ent := range extracted.Entities {
		cost := c.validating.Parse(ent.Value, true)
		result.Entities = append(result.Entities, EntityCost{
			Entity: ent,
			Weight: cost.WeightedSum,
			Length: cost.WeightedLength,
		})
	}

	switch {
	case text == "":
		result.Error = "empty message"
	case c.weights.Degenerate():
		result.Error = "configuration has no usable scale or length limit"
	case !result.Valid:
		result.ValidPrefix = validPrefix(text, extracted.ParseResults.ValidTextRange)
	}

	result.ProcessTime = time.Since(start)
	return result, nil
}

// validPrefix returns the code points covered by r, bounded by the text.
func validPrefix(text string, r extractor.TextRange) string {
	runes := []rune(text)
	end := r.End + 1
	if end <= 0 {
		return ""
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[:end])
}

// OutputResult outputs the result in the specified format.
func (c *Checker) OutputResult(result *Result) error {
	switch strings.ToLower(c.config.OutputFormat) {
	case "json":
		return c.outputJSON(result)
	case "human", "":
		return c.outputHuman(result)
	default:
		return fmt.Errorf("unsupported output format: %s", c.config.OutputFormat)
	}
}

func (c *Checker) outputJSON(result *Result) error {
	encoder := json.NewEncoder(c.config.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func (c *Checker) outputHuman(result *Result) error {
	w := c.config.Writer

	fmt.Fprintf(w, "Text: %s\n", result.Text)

	if result.Error != "" {
		fmt.Fprintf(w, "❌ Error: %s\n", color.RedString(result.Error))
		return nil
	}

	parse := result.Parse
	if result.Valid {
		fmt.Fprintf(w, "✅ Status: %s\n", color.GreenString("Valid"))
	} else {
		fmt.Fprintf(w, "❌ Status: %s\n", color.RedString("Too long or contains invalid characters"))
	}
	fmt.Fprintf(w, "📏 Weighted length: %d/%d (%d remaining, %s)\n",
		parse.WeightedLength, result.MaxLength, result.Remaining, formatPermillage(parse.Permillage))

	if c.config.Verbose {
		fmt.Fprintf(w, "⚙️  Configuration: v%d\n", result.ConfigVersion)
		fmt.Fprintf(w, "   Weighted sum: %d\n", parse.WeightedSum)
		fmt.Fprintf(w, "   Display range: [%d, %d]\n", parse.DisplayTextRange.Start, parse.DisplayTextRange.End)
		fmt.Fprintf(w, "   Valid range: [%d, %d]\n", parse.ValidTextRange.Start, parse.ValidTextRange.End)
		fmt.Fprintf(w, "⏱️  Process time: %v\n", result.ProcessTime)
	}

	if result.ValidPrefix != "" {
		fmt.Fprintf(w, "✂️  Fits up to: %s\n", color.YellowString(result.ValidPrefix))
	}

	if len(result.Entities) == 0 {
		fmt.Fprintln(w, "🔍 No entities found")
		return nil
	}

	fmt.Fprintf(w, "\n🔍 Entities (%d):\n", len(result.Entities))
	RenderEntityTable(w, result.Entities)
	return nil
}

// RenderEntityTable writes entities with their cost as a table.
func RenderEntityTable(w io.Writer, entities []EntityCost) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Value", "Start", "End", "Length"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, ent := range entities {
		table.Append([]string{
			string(ent.Type),
			ent.Value,
			strconv.Itoa(ent.Start),
			strconv.Itoa(ent.End),
			strconv.Itoa(ent.Length),
		})
	}
	table.Render()
}

func formatPermillage(p int) string {
	if p == extractor.PermillageSaturated {
		return "saturated"
	}
	return fmt.Sprintf("%d.%d%%", p/10, p%10)
}
