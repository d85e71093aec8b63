// Package docstore keeps downloaded report documents and diagnostic
// snapshots on disk.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/period"
)

// Store writes documents under a base directory: authenticated reports
// under reports/, failed downloads under diagnostics/.
type Store struct {
	dir string
	log *logrus.Logger
}

func New(dir string, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{dir: dir, log: log}
}

// SaveReport stores an authenticated report keyed by fund and month,
// overwriting any earlier download for the same pair. The returned path
// is what observations record as their source document.
func (s *Store) SaveReport(fundID string, p period.Month, data []byte) (string, error) {
	dir := filepath.Join(s.dir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := s.ReportPath(fundID, p)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(data),
	}).Debug("Stored report document")
	return path, nil
}

// SaveDiagnostic stores content that failed extraction or
// authentication. Files are timestamped so repeated failures don't
// overwrite each other.
func (s *Store) SaveDiagnostic(fundID, ext string, data []byte) (string, error) {
	dir := filepath.Join(s.dir, "diagnostics")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create diagnostics directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", fundID, time.Now().Format("20060102_150405"), ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write diagnostic: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(data),
	}).Debug("Stored diagnostic snapshot")
	return path, nil
}

// ReportPath returns where a report for the fund and month would be
// stored, without checking that it exists.
func (s *Store) ReportPath(fundID string, p period.Month) string {
	return filepath.Join(s.dir, "reports", fmt.Sprintf("%s_report_%s.pdf", fundID, compactMonth(p)))
}

func compactMonth(p period.Month) string {
	return strings.ReplaceAll(p.String(), "-", "")
}
