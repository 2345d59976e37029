// =============================================================================
// Cartera Report - File Manager Utility
// =============================================================================
//
// This module provides the file handling used by batch processing:
//   - Input discovery (spreadsheets waiting in the input directory)
//   - Archival of processed inputs and generated reports
//   - Output file naming
//   - Moving files across directories and devices
//   - The processing summary log
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to the input archive after a successful build
//   - Generated reports are copied to the output archive
//   - Failed inputs stay where they are so they can be fixed and retried
//   - An archived file never overwrites an earlier one with the same name
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// DefaultInputPatterns are the spreadsheet files picked up by discovery.
var DefaultInputPatterns = []string{"*.xlsx", "*.xls", "*.csv"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles the directories of a batch run.
type FileManager struct {
	// InputDir is where spreadsheets are dropped.
	InputDir string

	// OutputDir receives the generated reports and the summary log.
	OutputDir string

	// InputArchiveDir receives processed spreadsheets.
	InputArchiveDir string

	// OutputArchiveDir receives copies of generated reports.
	// Empty disables output archival.
	OutputArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in archives.
	// Example: input_archive/2024/01/15/cartera.xlsx
	UseTimestampSubdirs bool

	// ArchiveOnSuccess enables archival after a successful build.
	ArchiveOnSuccess bool

	// now is replaceable in tests.
	now func() time.Time
}

// NewFileManager creates a FileManager that archives on success.
func NewFileManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		OutputArchiveDir: outputArchiveDir,
		ArchiveOnSuccess: true,
		now:              time.Now,
	}
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
}

// EnsureDirectories creates all configured directories.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir, fm.OutputArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the regular files of the input directory that
// match any of patterns, sorted by name. Office lock files (~$name.xlsx)
// are skipped.
//
// PARAMETERS:
//   - patterns: Glob patterns. Empty uses DefaultInputPatterns.
func (fm *FileManager) DiscoverInputFiles(patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultInputPatterns
	}

	seen := map[string]bool{}
	var result []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan input directory: %w", err)
		}
		for _, file := range matches {
			if seen[file] || strings.HasPrefix(filepath.Base(file), "~$") {
				continue
			}
			info, err := os.Stat(file)
			if err != nil || info.IsDir() {
				continue
			}
			seen[file] = true
			result = append(result, file)
		}
	}

	sort.Strings(result)
	return result, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a processed input into the input archive.
//
// RETURNS:
//   - The archived path, or filePath unchanged when archival is disabled.
//   - An error if the move fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess || fm.InputArchiveDir == "" {
		return filePath, nil
	}

	archivePath := fm.archivePath(fm.InputArchiveDir, filePath)
	if err := MoveFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive input: %w", err)
	}
	return archivePath, nil
}

// ArchiveOutputFile copies a generated report into the output archive.
// The report stays in the output directory.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess || fm.OutputArchiveDir == "" {
		return filePath, nil
	}

	archivePath := fm.archivePath(fm.OutputArchiveDir, filePath)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy report to archive: %w", err)
	}
	return archivePath, nil
}

// archivePath returns a free path for filePath inside archiveDir.
// A name already taken gets a short random suffix.
func (fm *FileManager) archivePath(archiveDir, filePath string) string {
	dir := archiveDir
	if fm.UseTimestampSubdirs {
		now := fm.clock()
		dir = filepath.Join(archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	name := filepath.Base(filePath)
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, uuid.NewString()[:8], ext))
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName builds a report file name from a format.
//
// PARAMETERS:
//   - format: The name format.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {original}  - Input file name without extension (from params)
//   - ext:    The required extension, e.g. ".pptx". Appended when the
//             formatted name ends with a different one.
//   - params: Extra placeholder values, keyed without braces.
//
// EXAMPLE:
//   format: "{original}_{timestamp}.pptx"
//   params: {"original": "cartera_marzo"}
//   output: "cartera_marzo_20240315_143022.pptx"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	now := time.Now()

	pairs := []string{
		"{uuid}", uuid.NewString(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", params[k])
	}

	result := strings.NewReplacer(pairs...).Replace(format)

	if ext != "" && !strings.EqualFold(filepath.Ext(result), ext) {
		result = strings.TrimSuffix(result, filepath.Ext(result)) + ext
	}
	return result
}

// OriginalName returns the file name of path without its extension.
func OriginalName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary describes a batch run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRows       int
	TotalPages      int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo describes one successful build.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFile  string
	ArchivePath string
	Rows        int
	Pages       int
	OutputBytes int64
	ProcessTime time.Duration
}

// FailedFileInfo describes one failed build.
type FailedFileInfo struct {
	InputFile    string
	ErrorType    string
	ErrorMessage string
}

// WriteSummaryLog writes a processing summary into outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	name := fmt.Sprintf("processing_summary_%s.txt", summary.EndTime.Format("20060102_150405"))
	path := filepath.Join(outputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	rule := strings.Repeat("=", 80) + "\n"
	thin := strings.Repeat("-", 80) + "\n"

	fmt.Fprintf(w, "Cartera Report - Processing Summary\n%s\n", rule)
	fmt.Fprintf(w, "Run Information:\n")
	fmt.Fprintf(w, "  Start Time:  %s\n", summary.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  End Time:    %s\n", summary.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Duration:    %s\n\n", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))
	fmt.Fprintf(w, "Statistics:\n")
	fmt.Fprintf(w, "  Total Files: %d\n", summary.TotalFiles)
	fmt.Fprintf(w, "  Successful:  %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(w, "  Failed:      %d\n", summary.FailedFiles)
	fmt.Fprintf(w, "  Total Rows:  %s\n", humanize.Comma(int64(summary.TotalRows)))
	fmt.Fprintf(w, "  Total Pages: %s\n\n", humanize.Comma(int64(summary.TotalPages)))

	if len(summary.ProcessedFiles) > 0 {
		fmt.Fprintf(w, "Successful Files:\n%s", thin)
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(w, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(w, "  Output:       %s (%s)\n", pf.OutputFile, humanize.Bytes(uint64(pf.OutputBytes)))
			if pf.ArchivePath != "" && pf.ArchivePath != pf.InputFile {
				fmt.Fprintf(w, "  Archived To:  %s\n", pf.ArchivePath)
			}
			fmt.Fprintf(w, "  Rows / Pages: %d / %d\n", pf.Rows, pf.Pages)
			fmt.Fprintf(w, "  Process Time: %s\n\n", pf.ProcessTime.Round(time.Millisecond))
		}
	}

	if len(summary.FailedFilesList) > 0 {
		fmt.Fprintf(w, "Failed Files:\n%s", thin)
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(w, "  File:  %s\n", ff.InputFile)
			if ff.ErrorType != "" {
				fmt.Fprintf(w, "  Type:  %s\n", ff.ErrorType)
			}
			fmt.Fprintf(w, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	fmt.Fprintf(w, "%sEnd of Summary\n", rule)

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}
	return path, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// MoveFile moves src to dst, creating dst's directory. When a rename is not
// possible (different devices) the file is copied and the source removed.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to copy %s: %w", filepath.Base(src), err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s: %w", src, err)
	}
	return nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
