package analysis

import "testing"

func TestAnalyzeFlagsConsoleLogAndVar(t *testing.T) {
	content := "var x = 1\nconsole.log(x)\nconst y = 2"
	report := Analyze(content, "javascript")

	if len(report.Issues) != 2 {
		t.Fatalf("issue count %d", len(report.Issues))
	}
	if report.Issues[0].Line != 1 || report.Issues[0].Type != "info" {
		t.Fatalf("first issue %+v", report.Issues[0])
	}
	if report.Issues[1].Line != 2 || report.Issues[1].Type != "warning" {
		t.Fatalf("second issue %+v", report.Issues[1])
	}
	if report.Metrics.Lines != 3 {
		t.Fatalf("line count %d", report.Metrics.Lines)
	}
	if report.Metrics.Maintainability != 8 {
		t.Fatalf("maintainability %d", report.Metrics.Maintainability)
	}
}

func TestAnalyzeOtherLanguagesReportClean(t *testing.T) {
	report := Analyze("console.log('go has no console')", "go")
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %d", len(report.Issues))
	}
}

func TestAnalyzeComplexityCapped(t *testing.T) {
	long := ""
	for i := 0; i < 200; i++ {
		long += "line\n"
	}
	report := Analyze(long, "javascript")
	if report.Metrics.Complexity != 10 {
		t.Fatalf("complexity %d", report.Metrics.Complexity)
	}
}
