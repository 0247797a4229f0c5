// =============================================================================
// salesdocs - File Manager Utility
// =============================================================================
//
// This module provides the file helpers shared by the commands and the
// document generator:
//   - Output file naming from a configurable format
//   - Directory creation
//
// NAMING:
//   The file name format comes from output.file_name_format. Placeholders are
//   replaced, path separators are removed from the result, and the extension
//   of the export format is appended when missing.
//
//   "{type}_{number}_{date}"  ->  "estimate_EST-20240502-0001_20240502.xlsx"
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID unless params sets one
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {type}      - Document type
//               {number}    - Document number
//   - params: A map of placeholder values.
//   - ext:    The extension of the export format, without the dot.
//
// EXAMPLE:
//   format: "{number}_{uuid}"
//   params: {"number": "EST-20240502-0001"}
//   ext:    "xlsx"
//   output: "EST-20240502-0001_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xlsx"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	return GenerateOutputFileNameAt(format, params, ext, time.Now())
}

// GenerateOutputFileNameAt is GenerateOutputFileName with a fixed clock.
func GenerateOutputFileNameAt(format string, params map[string]string, ext string, now time.Time) string {
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	result = SanitizeFileName(result)

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), "."+strings.ToLower(ext)) {
		result += "." + ext
	}
	return result
}

// SanitizeFileName replaces characters that are not allowed in file names
// or object keys.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "document"
	}
	return name
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// EnsureDirectories creates each directory if it does not exist.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
