package docstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acastel/ytm-tracker/internal/docstore"
	"github.com/acastel/ytm-tracker/internal/period"
)

func TestSaveReport(t *testing.T) {
	dir := t.TempDir()
	store := docstore.New(dir, nil)
	month := period.New(2025, 10)

	path, err := store.SaveReport("carmignac_2029", month, []byte("first download"))
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	want := filepath.Join(dir, "reports", "carmignac_2029_report_202510.pdf")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if path != store.ReportPath("carmignac_2029", month) {
		t.Errorf("SaveReport path %q differs from ReportPath %q", path, store.ReportPath("carmignac_2029", month))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read stored report: %v", err)
	}
	if string(content) != "first download" {
		t.Errorf("content = %q, want %q", content, "first download")
	}
}

func TestSaveReportOverwritesSameMonth(t *testing.T) {
	// Re-running a month replaces the stored document, mirroring the
	// upsert on the observation itself.
	dir := t.TempDir()
	store := docstore.New(dir, nil)
	month := period.New(2025, 10)

	if _, err := store.SaveReport("sycomore_2030", month, []byte("first")); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	path, err := store.SaveReport("sycomore_2030", month, []byte("second"))
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "second" {
		t.Errorf("content = %q, want %q", content, "second")
	}

	files, _ := filepath.Glob(filepath.Join(dir, "reports", "*.pdf"))
	if len(files) != 1 {
		t.Errorf("reports count = %d, want 1", len(files))
	}
}

func TestSaveReportSeparatesMonths(t *testing.T) {
	dir := t.TempDir()
	store := docstore.New(dir, nil)

	if _, err := store.SaveReport("sycomore_2030", period.New(2025, 10), []byte("october")); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if _, err := store.SaveReport("sycomore_2030", period.New(2025, 11), []byte("november")); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "reports", "*.pdf"))
	if len(files) != 2 {
		t.Errorf("reports count = %d, want 2", len(files))
	}
}

func TestSaveDiagnostic(t *testing.T) {
	dir := t.TempDir()
	store := docstore.New(dir, nil)

	path, err := store.SaveDiagnostic("carmignac_2029", "html", []byte("<html>snapshot</html>"))
	if err != nil {
		t.Fatalf("SaveDiagnostic() error = %v", err)
	}

	if filepath.Dir(path) != filepath.Join(dir, "diagnostics") {
		t.Errorf("diagnostic stored in %q, want diagnostics/", filepath.Dir(path))
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "carmignac_2029_") || !strings.HasSuffix(name, ".html") {
		t.Errorf("diagnostic name = %q, want carmignac_2029_<timestamp>.html", name)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("diagnostic missing: %v", err)
	}
}
