package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
)

// WritePipelines dumps every label's pipeline as a CSV under dir, one file
// per label named "<label>_pipeline.csv".
func WritePipelines(dir string, pipelines map[string]domain.Pipeline) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create pipelines dir: %w", err)
	}

	for label, pipeline := range pipelines {
		if err := writePipeline(filepath.Join(dir, label+"_pipeline.csv"), pipeline); err != nil {
			return fmt.Errorf("write pipeline for %s: %w", label, err)
		}
	}
	return nil
}

func writePipeline(path string, pipeline domain.Pipeline) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ISO_TIME", "FROM_SERVICE", "TO_SERVICE", "ENDPOINT"}); err != nil {
		return err
	}
	for _, call := range pipeline {
		rec := []string{
			call.Time.Format(time.RFC3339Nano),
			call.FromService,
			call.ToService,
			call.Endpoint,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
