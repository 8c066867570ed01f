// Package output writes the aggregation report artifact to disk.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/naka-gawa/recent-contributors/internal/domain"
)

// Write serializes the report as pretty-printed JSON into dir, creating
// the directory if needed. The filename embeds the organization and the
// run's unix timestamp: <org>__<timestamp>__contributor_count.json.
// It returns the path of the written file.
func Write(report *domain.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("%s__%d__contributor_count.json", report.Organization, time.Now().Unix())
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report to %s: %w", path, err)
	}

	return path, nil
}
