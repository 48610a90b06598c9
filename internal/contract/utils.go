package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/analyzer/schema"
)

// Color variables for console output.
var (
	TopColor      = color.New(color.FgGreen, color.Bold) // TopColor marks the strongest specimens.
	HighColor     = color.New(color.FgCyan, color.Bold)  // HighColor marks clearly above-average specimens.
	ModerateColor = color.New(color.FgYellow)            // ModerateColor is standard middle ground, not bold.
	LowColor      = color.New(color.FgRed)               // LowColor marks the weakest specimens.
	UnscoredColor = color.New(color.Faint)               // UnscoredColor marks specimens without a score.
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64, scored bool) string {
	text := schema.GetLabel(score, scored)

	switch text {
	case schema.TopLabel:
		return TopColor.Sprint(text)
	case schema.HighLabel:
		return HighColor.Sprint(text)
	case schema.ModerateLabel:
		return ModerateColor.Sprint(text)
	case schema.LowLabel:
		return LowColor.Sprint(text)
	default:
		return UnscoredColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".analyzer_cache.db"
	}
	return filepath.Join(homeDir, ".analyzer_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for ranking history.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".analyzer_analysis.db"
	}
	return filepath.Join(homeDir, ".analyzer_analysis.db")
}

// TruncatePath truncates a name to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SnapshotKey returns the cache key under which the last ranking of a project is stored.
func SnapshotKey(projectPath string) string {
	return "snapshot:" + filepath.Clean(projectPath)
}

// DateTimeFormat is the timestamp layout used in human-readable output.
const DateTimeFormat = "2006-01-02 15:04:05"
