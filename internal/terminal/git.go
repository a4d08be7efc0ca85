package terminal

import (
	"strings"
	"time"
)

// GitRequest carries the optional inputs of a simulated git operation.
type GitRequest struct {
	Message string   `json:"message"`
	Files   []string `json:"files"`
}

// Git returns canned results for a git operation, shaped per operation
// the way a porcelain wrapper would report them.
func Git(operation string, req GitRequest) map[string]any {
	switch operation {
	case "status":
		return map[string]any{
			"branch":    "main",
			"modified":  []string{"src/index.js", "package.json"},
			"untracked": []string{"temp.txt"},
			"staged":    []string{},
		}
	case "add":
		files := "files"
		if len(req.Files) > 0 {
			files = strings.Join(req.Files, ", ")
		}
		return map[string]any{"message": "Added " + files + " to staging area"}
	case "commit":
		msg := req.Message
		if msg == "" {
			msg = "Commit message"
		}
		return map[string]any{
			"hash":      "1a2b3c4d",
			"message":   msg,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
	case "push":
		return map[string]any{"message": "Successfully pushed to origin/main"}
	case "pull":
		return map[string]any{"message": "Already up to date"}
	case "log":
		return map[string]any{
			"commits": []map[string]any{
				{
					"hash":    "1a2b3c4d",
					"message": "Initial commit",
					"author":  "User",
					"date":    time.Now().UTC().Format(time.RFC3339),
				},
			},
		}
	default:
		return map[string]any{"message": "Git " + operation + " completed"}
	}
}
