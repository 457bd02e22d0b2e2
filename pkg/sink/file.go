package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vango-dev/noorform/pkg/form"
)

// FileSink writes each submission to dir/form/id.json.
type FileSink struct {
	dir string
}

// NewFileSink creates a FileSink, creating dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileSink{dir: dir}, nil
}

// Store writes sub. A file is never overwritten.
func (s *FileSink) Store(ctx context.Context, sub Submission) error {
	formDir := filepath.Join(s.dir, sub.Form)
	if err := os.MkdirAll(formDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	path := filepath.Join(formDir, sub.ID+".json")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// For returns the SubmitFunc of formName.
func (s *FileSink) For(formName string) form.SubmitFunc {
	return Bind(s, formName)
}
