package ingest

import (
	"context"
	"os"
)

// Recognizer extracts the raw text of an uploaded document. A production
// deployment plugs in a real OCR engine here; the pipeline only cares about
// the recovered text.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// PlainTextRecognizer reads the file as UTF-8 text. Used as the default and
// in tests, where documents are already text.
type PlainTextRecognizer struct{}

func (PlainTextRecognizer) Recognize(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
