package extractor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"code.sajari.com/docconv/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputFormat selects how a file is turned into message text.
type InputFormat string

const (
	InputAuto     InputFormat = "auto"
	InputText     InputFormat = "text"
	InputMarkdown InputFormat = "markdown"
	InputDocument InputFormat = "doc"
)

// ParseInputFormat maps a flag value to an InputFormat.
func ParseInputFormat(name string) (InputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return InputAuto, nil
	case "text", "txt", "plain":
		return InputText, nil
	case "markdown", "md":
		return InputMarkdown, nil
	case "doc", "document", "pdf", "docx":
		return InputDocument, nil
	}
	return "", fmt.Errorf("unknown input format: %s", name)
}

// DetectInputFormat picks the format from the file extension.
func DetectInputFormat(filename string) InputFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown", ".mdown":
		return InputMarkdown
	case ".pdf", ".doc", ".docx", ".odt", ".rtf", ".pages", ".html", ".htm", ".xml":
		return InputDocument
	}
	return InputText
}

// ExtractionStats summarizes the entities found in a document.
type ExtractionStats struct {
	TotalEntities  int                `json:"total_entities"`
	UniqueEntities int                `json:"unique_entities"`
	EntitiesByType map[EntityType]int `json:"entities_by_type"`
}

// DocumentResult contains the entities of a whole file.
type DocumentResult struct {
	Filename    string          `json:"filename"`
	Format      InputFormat     `json:"format"`
	TotalText   int             `json:"total_text"`
	Entities    []Entity        `json:"entities"`
	Summary     ExtractionStats `json:"summary"`
	ProcessTime time.Duration   `json:"process_time"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// Summarize counts entities per type and distinct values.
func Summarize(entities []Entity) ExtractionStats {
	stats := ExtractionStats{
		TotalEntities:  len(entities),
		EntitiesByType: make(map[EntityType]int),
	}
	unique := make(map[string]bool)
	for _, ent := range entities {
		stats.EntitiesByType[ent.Type]++
		unique[string(ent.Type)+"\x00"+ent.Value] = true
	}
	stats.UniqueEntities = len(unique)
	return stats
}

// LoadText reads a file as message text. Documents are converted with
// docconv and Markdown is flattened to its visible text and link targets.
func LoadText(filename string, format InputFormat) (string, error) {
	if format == InputAuto || format == "" {
		format = DetectInputFormat(filename)
	}

	switch format {
	case InputDocument:
		response, err := docconv.ConvertPath(filename)
		if err != nil {
			return "", fmt.Errorf("failed to convert document '%s': %w", filename, err)
		}
		body := cleanText(response.Body)
		if strings.TrimSpace(body) == "" {
			return "", fmt.Errorf("no readable text found in document '%s'", filename)
		}
		return body, nil
	case InputMarkdown:
		src, err := os.ReadFile(filename)
		if err != nil {
			return "", fmt.Errorf("failed to read file '%s': %w", filename, err)
		}
		return MarkdownText(src), nil
	default:
		src, err := os.ReadFile(filename)
		if err != nil {
			return "", fmt.Errorf("failed to read file '%s': %w", filename, err)
		}
		if !utf8.Valid(src) {
			return "", fmt.Errorf("file '%s' is not valid UTF-8", filename)
		}
		return string(src), nil
	}
}

// MarkdownText renders Markdown source as plain text. Link destinations are
// appended after the link text so they are still extracted.
func MarkdownText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.URL(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.Link:
			if !entering && len(node.Destination) > 0 {
				b.WriteString(" ")
				b.Write(node.Destination)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		}

		if !entering && n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
			b.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimRight(b.String(), "\n")
}

// ExtractFromFile extracts entities from a whole file. With federated set,
// federated mentions are included.
func (e *Extractor) ExtractFromFile(filename string, format InputFormat, federated bool) (*DocumentResult, error) {
	startTime := time.Now()

	if format == InputAuto || format == "" {
		format = DetectInputFormat(filename)
	}
	body, err := LoadText(filename, format)
	if err != nil {
		return nil, err
	}

	var entities []Entity
	if federated {
		entities = e.ExtractFederatedEntitiesWithIndices(body)
	} else {
		entities = e.ExtractEntitiesWithIndices(body)
	}

	result := &DocumentResult{
		Filename:  filename,
		Format:    format,
		TotalText: utf8.RuneCountInString(body),
		Entities:  entities,
		Summary:   Summarize(entities),
	}
	if len(entities) == 0 {
		result.Warnings = append(result.Warnings, "no entities found")
	}
	result.ProcessTime = time.Since(startTime)

	return result, nil
}
