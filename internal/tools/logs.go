package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadLogFileTool reads a log file from the configured log directory.
type ReadLogFileTool struct {
	logDir string
}

// NewReadLogFileTool creates the read_log_file tool.
func NewReadLogFileTool(logDir string) *ReadLogFileTool {
	return &ReadLogFileTool{logDir: logDir}
}

func (t *ReadLogFileTool) Name() string                   { return "read_log_file" }
func (t *ReadLogFileTool) Classification() Classification { return ClassAuto }

func (t *ReadLogFileTool) Description() string {
	return "Read contents of a log file from the logs directory."
}

func (t *ReadLogFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "Name of the log file (e.g. 'app.log', 'error.log')",
			},
		},
		"required": []string{"filename"},
	}
}

func (t *ReadLogFileTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	filename := GetString(params, "filename", "")
	if filename == "" {
		return "Error: filename is required", nil
	}

	path := filepath.Join(t.logDir, filepath.Base(filename))
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: Log file '%s' not found in %s/ directory", filename, t.logDir), nil
		}
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied reading '%s'", filename), nil
		}
		return fmt.Sprintf("Error reading '%s': %v", filename, err), nil
	}

	lineCount := strings.Count(string(content), "\n") + 1
	return fmt.Sprintf("File: %s\nSize: %d bytes\nLines: %d\n\n%s",
		filename, len(content), lineCount, string(content)), nil
}

// ListLogFilesTool lists the .log files in the configured log directory.
type ListLogFilesTool struct {
	logDir string
}

// NewListLogFilesTool creates the list_log_files tool.
func NewListLogFilesTool(logDir string) *ListLogFilesTool {
	return &ListLogFilesTool{logDir: logDir}
}

func (t *ListLogFilesTool) Name() string                   { return "list_log_files" }
func (t *ListLogFilesTool) Classification() Classification { return ClassAuto }

func (t *ListLogFilesTool) Description() string {
	return "List all available log files in the logs directory with their sizes."
}

func (t *ListLogFilesTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *ListLogFilesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	entries, err := os.ReadDir(t.logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: Log directory '%s' does not exist", t.logDir), nil
		}
		return fmt.Sprintf("Error listing log files: %v", err), nil
	}

	var names []string
	sizes := make(map[string]int64)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		names = append(names, entry.Name())
		sizes[entry.Name()] = info.Size()
	}

	if len(names) == 0 {
		return fmt.Sprintf("No .log files found in %s/ directory", t.logDir), nil
	}

	sort.Strings(names)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Available log files in %s/:\n\n", t.logDir)
	for _, name := range names {
		fmt.Fprintf(&sb, "  - %s (%.2f KB)\n", name, float64(sizes[name])/1024)
	}
	return sb.String(), nil
}

// SearchLogsTool searches a log file for a term, case-insensitive.
type SearchLogsTool struct {
	logDir string
}

// NewSearchLogsTool creates the search_logs tool.
func NewSearchLogsTool(logDir string) *SearchLogsTool {
	return &SearchLogsTool{logDir: logDir}
}

func (t *SearchLogsTool) Name() string                   { return "search_logs" }
func (t *SearchLogsTool) Classification() Classification { return ClassAuto }

func (t *SearchLogsTool) Description() string {
	return "Search for a specific term in a log file and return matching lines with line numbers. The search is case-insensitive."
}

func (t *SearchLogsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "Name of the log file to search",
			},
			"search_term": map[string]any{
				"type":        "string",
				"description": "Term to search for (case-insensitive)",
			},
		},
		"required": []string{"filename", "search_term"},
	}
}

func (t *SearchLogsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	filename := GetString(params, "filename", "")
	term := GetString(params, "search_term", "")
	if filename == "" || term == "" {
		return "Error: filename and search_term are required", nil
	}

	path := filepath.Join(t.logDir, filepath.Base(filename))
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: Log file '%s' not found", filename), nil
		}
		return fmt.Sprintf("Error searching '%s': %v", filename, err), nil
	}

	lowerTerm := strings.ToLower(term)
	var matches []string
	for i, line := range strings.Split(string(content), "\n") {
		if strings.Contains(strings.ToLower(line), lowerTerm) {
			matches = append(matches, fmt.Sprintf("Line %d: %s", i+1, strings.TrimRight(line, "\r\n")))
		}
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No matches found for '%s' in %s", term, filename), nil
	}

	return fmt.Sprintf("Found %d matches for '%s' in %s:\n\n%s",
		len(matches), term, filename, strings.Join(matches, "\n")), nil
}
