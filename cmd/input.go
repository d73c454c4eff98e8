package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/btraven00/twtext/internal/extractor"
)

var errNoInput = errors.New("no input: pass text arguments, --file or --stdin")

// inputOptions selects where messages come from.
type inputOptions struct {
	files   []string
	stdin   bool
	lines   bool
	format  extractor.InputFormat
	workers int
}

// message is one unit of input with the place it came from.
type message struct {
	Source string `json:"source"`
	Line   int    `json:"line,omitempty"`
	Text   string `json:"-"`
}

// readMessages collects messages from the joined arguments, stdin and files.
// With lines set every non-blank line becomes its own message.
func readMessages(ctx context.Context, args []string, in io.Reader, opts inputOptions) ([]message, error) {
	if len(args) == 0 && !opts.stdin && len(opts.files) == 0 {
		return nil, errNoInput
	}

	var messages []message
	if len(args) > 0 {
		messages = append(messages, split("args", strings.Join(args, " "), opts.lines)...)
	}

	if opts.stdin {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		messages = append(messages, split("stdin", strings.TrimRight(string(data), "\r\n"), opts.lines)...)
	}

	texts, err := loadFiles(ctx, opts.files, opts.format, opts.workers)
	if err != nil {
		return nil, err
	}
	for i, text := range texts {
		messages = append(messages, split(opts.files[i], text, opts.lines)...)
	}

	return messages, nil
}

// loadFiles reads files concurrently, keeping their order.
func loadFiles(ctx context.Context, files []string, format extractor.InputFormat, workers int) ([]string, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	texts := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, filename := range files {
		i, filename := i, filename
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := extractor.LoadText(filename, format)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filename, err)
			}
			texts[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}

func split(source, text string, lines bool) []message {
	if !lines {
		return []message{{Source: source, Text: text}}
	}

	var messages []message
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		messages = append(messages, message{Source: source, Line: i + 1, Text: line})
	}
	return messages
}

// label names a message in human output.
func (m message) label() string {
	if m.Line > 0 {
		return fmt.Sprintf("%s:%d", m.Source, m.Line)
	}
	return m.Source
}
