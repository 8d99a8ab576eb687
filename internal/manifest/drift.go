package manifest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/samhoang/capable/internal/logging"
)

// DriftType represents how a packaged file differs from its record
type DriftType string

const (
	DriftMissing    DriftType = "missing"    // Recorded target no longer exists
	DriftChanged    DriftType = "changed"    // Target content digest differs from the record
	DriftUnreadable DriftType = "unreadable" // Target exists but could not be read
)

// DriftItem represents a single drift finding
type DriftItem struct {
	Type   DriftType
	Record Record
	Actual string // Digest found on disk (for changed)
	Err    error  // Read failure (for unreadable)
}

// Message renders the finding the way verify reports it
func (d DriftItem) Message() string {
	switch d.Type {
	case DriftMissing:
		return fmt.Sprintf("%s does not exist!", d.Record.Target)
	case DriftUnreadable:
		return fmt.Sprintf("%s could not be read: %v", d.Record.Target, d.Err)
	}
	return fmt.Sprintf("%s has changed!", d.Record.Target)
}

// DriftReport contains all drift findings for a manifest
type DriftReport struct {
	Checked int
	Issues  []DriftItem
}

// HasDrift returns true if there are any issues
func (r *DriftReport) HasDrift() bool {
	return len(r.Issues) > 0
}

// IssuesByType groups issues by drift type
func (r *DriftReport) IssuesByType() map[DriftType][]DriftItem {
	result := make(map[DriftType][]DriftItem)
	for _, issue := range r.Issues {
		result[issue.Type] = append(result[issue.Type], issue)
	}
	return result
}

// Detector checks packaged files against a manifest
type Detector struct {
	fs     afero.Fs
	logger *log.Logger
}

// NewDetector creates a detector reading targets from fsys
func NewDetector(fsys afero.Fs, logger *log.Logger) *Detector {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Detector{fs: fsys, logger: logger}
}

// Detect recomputes the digest of every recorded target
func (d *Detector) Detect(m *Manifest) *DriftReport {
	report := &DriftReport{}
	for _, rec := range m.Records() {
		report.Checked++

		data, err := afero.ReadFile(d.fs, rec.Target)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			report.Issues = append(report.Issues, DriftItem{Type: DriftMissing, Record: rec})
			continue
		case err != nil:
			report.Issues = append(report.Issues, DriftItem{Type: DriftUnreadable, Record: rec, Err: err})
			continue
		}

		actual := Digest(data)
		d.logger.Debug("checked target", "target", rec.Target, "want", rec.SHA256, "got", actual)
		if actual != rec.SHA256 {
			report.Issues = append(report.Issues, DriftItem{Type: DriftChanged, Record: rec, Actual: actual})
		}
	}
	return report
}

// Check reports every drift finding to errOut and the total to out. The
// returned count is the failure signal; zero means nothing drifted.
func (d *Detector) Check(m *Manifest, out, errOut io.Writer) int {
	report := d.Detect(m)
	for _, issue := range report.Issues {
		fmt.Fprintln(errOut, issue.Message())
	}
	fmt.Fprintf(out, "\n%d Errors Found!\n", len(report.Issues))
	return len(report.Issues)
}

// Cleanup deletes every recorded target
func (d *Detector) Cleanup(m *Manifest, out, errOut io.Writer) error {
	return d.Remove(m.Targets(), out, errOut)
}

// Remove deletes the given targets. Targets that are already gone are
// reported and skipped; other failures are returned together once every
// target has been tried.
func (d *Detector) Remove(targets []string, out, errOut io.Writer) error {
	var errs []error
	for _, target := range targets {
		err := d.fs.Remove(target)
		switch {
		case err == nil:
			d.logger.Debug("removed target", "target", target)
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintf(errOut, "%s does not exist!\n", target)
		default:
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	fmt.Fprintln(out, "Done.")
	return nil
}
