// Package terminal provides the simulated command execution backing the
// in-browser terminal. It is a hardcoded lookup, not an execution engine.
package terminal

import "strings"

var responses = map[string]string{
	"ls":             "index.js  package.json  node_modules  README.md",
	"pwd":            "/workspace/project",
	"whoami":         "codeforge-user",
	"node --version": "v18.17.0",
	"npm --version":  "9.6.7",
	"git status":     "On branch main\nnothing to commit, working tree clean",
	"npm install":    "added 57 packages, and audited 58 packages in 3s\n\n✓ Installation complete",
	"npm start":      "Server running on http://localhost:3000",
	"npm run dev":    "Development server started on port 3000",
	"npm test":       "All tests passed! ✅",
}

// Simulate returns the canned output for a command, or a generic echo for
// anything not in the table.
func Simulate(command string) string {
	if out, ok := responses[strings.ToLower(strings.TrimSpace(command))]; ok {
		return out
	}
	return "Command output: " + command
}
