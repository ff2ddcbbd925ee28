package run

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reviewscout/internal/review"
)

// WriteArtifact writes the final record set as a pretty-printed UTF-8 JSON
// array named {company}_{source}_{startYYYYMMDD}_to_{endYYYYMMDD}.json.
// Non-ASCII characters are preserved literally; zero records produce "[]",
// not "null".
func WriteArtifact(outDir, company string, source review.Source, rng review.Range, records []review.Review) (string, error) {
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	if records == nil {
		records = []review.Review{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s_to_%s.json",
		company,
		strings.ToLower(string(source)),
		rng.Start.Format("20060102"),
		rng.End.Format("20060102"),
	)
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	return path, nil
}
