package terminal

import (
	"strings"
	"testing"
)

func TestGitStatusShape(t *testing.T) {
	got := Git("status", GitRequest{})
	if got["branch"] != "main" {
		t.Fatalf("status branch %v", got["branch"])
	}
	if modified, ok := got["modified"].([]string); !ok || len(modified) == 0 {
		t.Fatalf("status modified %v", got["modified"])
	}
}

func TestGitCommitUsesProvidedMessage(t *testing.T) {
	got := Git("commit", GitRequest{Message: "wip: cursors"})
	if got["message"] != "wip: cursors" {
		t.Fatalf("commit message %v", got["message"])
	}
	if got["hash"] == "" {
		t.Fatal("commit result missing hash")
	}

	fallback := Git("commit", GitRequest{})
	if fallback["message"] != "Commit message" {
		t.Fatalf("default commit message %v", fallback["message"])
	}
}

func TestGitAddListsFiles(t *testing.T) {
	got := Git("add", GitRequest{Files: []string{"a.js", "b.js"}})
	msg, _ := got["message"].(string)
	if !strings.Contains(msg, "a.js, b.js") {
		t.Fatalf("add message %q", msg)
	}
}

func TestGitUnknownOperationFallback(t *testing.T) {
	got := Git("rebase", GitRequest{})
	msg, _ := got["message"].(string)
	if !strings.Contains(msg, "rebase") {
		t.Fatalf("expected fallback to echo the operation, got %q", msg)
	}
}
