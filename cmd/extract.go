package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/btraven00/twtext/internal/extractor"
)

var (
	extractFiles      []string
	extractStdin      bool
	extractLines      bool
	extractWorkers    int
	extractFederated  bool
	extractOnly       []string
	extractNoBareURLs bool
	extractInput      string
	showProgress      bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [text...]",
	Short: "Extract mentions, lists, hashtags, cashtags and URLs",
	Long: `Extract entities from messages and report their code point offsets.

Text can be passed as arguments (joined with spaces into one message), read
from stdin, or loaded from files. Markdown files are flattened to their text
and documents (PDF, DOCX, ODT, RTF, HTML) are converted first. With --lines
every line is a separate message and lines are processed in parallel.

Examples:
  twtext extract "Hello @alice, see https://example.com #news"
  twtext extract --federated "ping @bob@example.social"
  twtext extract --only hashtags,cashtags "#golang $GOOG"
  twtext extract --file thread.md --file notes.pdf
  cat messages.txt | twtext extract --stdin --lines --workers 8`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringSliceVarP(&extractFiles, "file", "f", nil, "read messages from files")
	extractCmd.Flags().BoolVar(&extractStdin, "stdin", false, "read messages from stdin")
	extractCmd.Flags().BoolVar(&extractLines, "lines", false, "treat every line as a separate message")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", runtime.NumCPU(), "number of parallel workers")
	extractCmd.Flags().BoolVar(&extractFederated, "federated", false, "include federated mentions (@user@domain)")
	extractCmd.Flags().StringSliceVar(&extractOnly, "only", nil, "only report these entity types (mentions, lists, hashtags, cashtags, urls, federated)")
	extractCmd.Flags().BoolVar(&extractNoBareURLs, "no-bare-urls", false, "only extract URLs with an explicit protocol")
	extractCmd.Flags().StringVar(&extractInput, "input", "auto", "input file format (auto, text, markdown, doc)")
	extractCmd.Flags().BoolVar(&showProgress, "progress", true, "show progress during batch processing")
}

// extractedMessage is the output record for one message or file.
type extractedMessage struct {
	message
	Format   extractor.InputFormat     `json:"format,omitempty"`
	Entities []extractor.Entity        `json:"entities"`
	Parse    *extractor.ParseResults   `json:"parse,omitempty"`
	Summary  extractor.ExtractionStats `json:"summary"`
	Warnings []string                  `json:"warnings,omitempty"`
	Error    string                    `json:"error,omitempty"`
	Cached   bool                      `json:"cached,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !extractStdin && len(extractFiles) == 0 {
		return errNoInput
	}

	format, err := extractor.ParseInputFormat(extractInput)
	if err != nil {
		return err
	}
	filter, err := parseTypeFilter(extractOnly)
	if err != nil {
		return err
	}
	weights, err := loadWeights()
	if err != nil {
		return err
	}

	options := extractor.DefaultOptions()
	options.ExtractURLsWithoutProtocol = !extractNoBareURLs
	v := extractor.NewValidating(weights, options)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sources, tasks, err := buildTasks(ctx, args, cmd.InOrStdin(), format)
	if err != nil {
		return err
	}

	var (
		tracker   *extractor.ProgressTracker
		trackerMu sync.Mutex
		done      = make(chan struct{})
	)
	if showProgress && !quiet && len(tasks) > 1 {
		tracker = extractor.NewProgressTracker()
		status("🚀 Processing %d messages with %d workers...\n", len(tasks), extractWorkers)

		go func() {
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					trackerMu.Lock()
					tracker.PrintProgress(os.Stderr)
					trackerMu.Unlock()
				case <-done:
					return
				}
			}
		}()
	}

	onProgress := func(update extractor.ProgressUpdate) {
		if tracker != nil {
			trackerMu.Lock()
			tracker.Update(update)
			trackerMu.Unlock()
		}
		if update.Status == extractor.TaskStatusFailed && !quiet {
			fmt.Fprintf(os.Stderr, "\n❌ Failed to process %s: %s\n", update.Filename, update.Message)
		}
	}

	poolOptions := extractor.PoolOptions{
		Workers:   extractWorkers,
		Federated: extractFederated || filter[extractor.EntityTypeFederatedMention],
	}
	results, stats, batchErr := extractor.RunBatch(ctx, v, poolOptions, tasks, onProgress)
	close(done)

	if tracker != nil {
		trackerMu.Lock()
		tracker.PrintProgress(os.Stderr)
		trackerMu.Unlock()
		fmt.Fprintln(os.Stderr)
	}
	if batchErr != nil {
		return batchErr
	}
	if verbose {
		status("✅ Completed %d tasks (%d cache hits, %d workers)\n", stats.CompletedTasks, stats.CacheHits, stats.NumWorkers)
	}

	records := make([]extractedMessage, 0, len(results))
	for _, res := range results {
		records = append(records, toRecord(sources[res.Task.Index], res, filter))
	}

	return outputExtraction(cmd.OutOrStdout(), records)
}

// buildTasks turns arguments and stdin into text tasks and every file into a
// document task, unless --lines asks for files to be split as well.
func buildTasks(ctx context.Context, args []string, in io.Reader, format extractor.InputFormat) ([]message, []extractor.Task, error) {
	opts := inputOptions{
		stdin:   extractStdin,
		lines:   extractLines,
		format:  format,
		workers: extractWorkers,
	}
	if extractLines {
		opts.files = extractFiles
	}

	var messages []message
	if len(args) > 0 || opts.stdin || len(opts.files) > 0 {
		var err error
		messages, err = readMessages(ctx, args, in, opts)
		if err != nil {
			return nil, nil, err
		}
	}

	tasks := make([]extractor.Task, 0, len(messages)+len(extractFiles))
	for i, msg := range messages {
		tasks = append(tasks, extractor.Task{
			ID:    fmt.Sprintf("msg-%d", i),
			Index: i,
			Text:  msg.Text,
		})
	}

	if !extractLines {
		for _, filename := range extractFiles {
			index := len(messages)
			messages = append(messages, message{Source: filename})
			tasks = append(tasks, extractor.Task{
				ID:       fmt.Sprintf("file-%d", index),
				Index:    index,
				Filename: filename,
				Format:   format,
			})
		}
	}

	return messages, tasks, nil
}

func toRecord(source message, res extractor.TaskResult, filter map[extractor.EntityType]bool) extractedMessage {
	record := extractedMessage{message: source, Cached: res.Cached}
	if res.Error != nil {
		record.Error = res.Error.Error()
		record.Entities = []extractor.Entity{}
		return record
	}

	record.Entities = filterEntities(res.Result.Entities, filter)
	record.Summary = extractor.Summarize(record.Entities)
	if res.Document != nil {
		record.Format = res.Document.Format
		record.Warnings = res.Document.Warnings
	} else {
		parse := res.Result.ParseResults
		record.Parse = &parse
	}
	return record
}

func parseTypeFilter(names []string) (map[extractor.EntityType]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	filter := make(map[extractor.EntityType]bool, len(names))
	for _, name := range names {
		t, ok := extractor.ParseEntityType(name)
		if !ok {
			return nil, fmt.Errorf("unknown entity type: %s", name)
		}
		filter[t] = true
	}
	return filter, nil
}

func filterEntities(entities []extractor.Entity, filter map[extractor.EntityType]bool) []extractor.Entity {
	if filter == nil {
		if entities == nil {
			return []extractor.Entity{}
		}
		return entities
	}
	kept := make([]extractor.Entity, 0, len(entities))
	for _, ent := range entities {
		if filter[ent.Type] {
			kept = append(kept, ent)
		}
	}
	return kept
}

func outputExtraction(w io.Writer, records []extractedMessage) error {
	switch outputFormat() {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	case "human", "":
		return outputExtractionHuman(w, records)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat())
	}
}

func outputExtractionHuman(w io.Writer, records []extractedMessage) error {
	total := 0
	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "📄 %s\n", record.label())

		if record.Error != "" {
			fmt.Fprintf(w, "❌ Error: %s\n", color.RedString(record.Error))
			continue
		}
		for _, warning := range record.Warnings {
			if !quiet {
				fmt.Fprintf(w, "⚠️  %s\n", warning)
			}
		}
		if record.Parse != nil && verbose {
			fmt.Fprintf(w, "📏 Weighted length: %d (valid: %t)\n", record.Parse.WeightedLength, record.Parse.IsValid)
		}
		if len(record.Entities) == 0 {
			fmt.Fprintln(w, "🔍 No entities found")
			continue
		}

		total += len(record.Entities)
		renderEntities(w, record.Entities)
	}

	if len(records) > 1 {
		fmt.Fprintf(w, "\n📈 Summary: %d entities in %d messages\n", total, len(records))
	}
	return nil
}

// renderEntities writes entities as a table.
func renderEntities(w io.Writer, entities []extractor.Entity) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Value", "Start", "End"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, ent := range entities {
		table.Append([]string{
			string(ent.Type),
			ent.Value,
			strconv.Itoa(ent.Start),
			strconv.Itoa(ent.End),
		})
	}
	table.Render()
}
