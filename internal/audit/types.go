package audit

import (
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/temirov/itamaudit/internal/discrepancy"
	"github.com/temirov/itamaudit/internal/spreadsheet"
)

const (
	outputFilePermissionsConstant      fs.FileMode = 0o644
	outputDirectoryPermissionsConstant fs.FileMode = 0o755
)

// CommandOptions captures the configurable parameters for one audit run.
type CommandOptions struct {
	InputPath        string
	OutputDirectory  string
	HeaderRow        int
	SheetName        string
	ReasonFormat     discrepancy.ReasonFormat
	ReservedPrefixes []string
	WriteSummary     bool
}

// RunResult describes the artifacts produced by a completed run.
type RunResult struct {
	OutputPath  string
	SummaryPath string
	Summary     spreadsheet.RunSummary
	Report      discrepancy.Report
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FileSystem provides the filesystem operations the audit writes through.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
	CreateExclusive(path string) (io.WriteCloser, error)
	Remove(path string) error
}

// LoaderResolver selects a spreadsheet loader for an input path.
type LoaderResolver func(filePath string, options spreadsheet.LoaderOptions) (spreadsheet.Loader, error)

// OSFileSystem implements FileSystem with the os package.
type OSFileSystem struct{}

// Stat returns file information for path.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// MkdirAll creates path and any missing parents.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// CreateExclusive creates path and fails when it already exists.
func (OSFileSystem) CreateExclusive(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, outputFilePermissionsConstant)
}

// Remove deletes path.
func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}
