// Package analysis provides the mock lint pass backing the editor's
// analyze action. It is a line-scanning lookup, not a real parser.
package analysis

import "strings"

// Issue is one finding in a scanned file.
type Issue struct {
	Line    int    `json:"line"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Metrics are the rough size/health numbers reported alongside findings.
type Metrics struct {
	Lines           int `json:"lines"`
	Complexity      int `json:"complexity"`
	Maintainability int `json:"maintainability"`
}

// Report is the full analysis result for one file.
type Report struct {
	Issues  []Issue `json:"issues"`
	Metrics Metrics `json:"metrics"`
}

// Analyze scans file content for a handful of canned findings. Only
// javascript and typescript have rules; other languages report clean.
func Analyze(content, language string) Report {
	lines := strings.Split(content, "\n")
	issues := make([]Issue, 0)

	if language == "javascript" || language == "typescript" {
		for i, line := range lines {
			if strings.Contains(line, "console.log") {
				issues = append(issues, Issue{
					Line:    i + 1,
					Type:    "warning",
					Message: "Consider removing console.log statements in production",
				})
			}
			if strings.Contains(line, "var ") {
				issues = append(issues, Issue{
					Line:    i + 1,
					Type:    "info",
					Message: "Consider using let or const instead of var",
				})
			}
		}
	}

	complexity := len(lines) / 10
	if complexity > 10 {
		complexity = 10
	}
	maintainability := 10 - len(issues)
	if maintainability < 1 {
		maintainability = 1
	}

	return Report{
		Issues: issues,
		Metrics: Metrics{
			Lines:           len(lines),
			Complexity:      complexity,
			Maintainability: maintainability,
		},
	}
}
