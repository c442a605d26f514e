package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskboard/internal/service"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd("1.2.3")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListOverdueSample(t *testing.T) {
	out, err := run(t, "list", "--filter", "overdue", "--today", "2025-09-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Client Meeting Preparation") || !strings.Contains(out, "[overdue]") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "Code Review") || strings.Contains(out, "Complete React Dashboard") {
		t.Fatalf("unexpected tasks in %q", out)
	}
}

func TestListSortedJSON(t *testing.T) {
	out, err := run(t, "list", "--today", "2025-09-01", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var tasks []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 3 || tasks[0].ID != 3 || tasks[1].ID != 2 || tasks[2].ID != 1 {
		t.Fatalf("order = %+v", tasks)
	}
}

func TestListSearchNoMatch(t *testing.T) {
	out, err := run(t, "list", "--search", "nothing like this")
	if err != nil || !strings.Contains(out, "No tasks found.") {
		t.Fatalf("out=%q err=%v", out, err)
	}
}

func TestListRejectsBadFlags(t *testing.T) {
	if _, err := run(t, "list", "--filter", "someday"); err == nil {
		t.Fatal("expected filter error")
	}
	if _, err := run(t, "list", "--today", "yesterday"); err == nil {
		t.Fatal("expected date error")
	}
}

func TestAnalyticsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	doc := `tasks:
  - title: Draft copy
    category: Marketing
    due_date: 2025-08-01
  - title: Ship landing page
    category: Marketing
    completed: true
    completed_at: 2025-08-20T10:00:00Z
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := run(t, "analytics", "--file", path, "--today", "2025-09-01")
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	for _, want := range []string{"Total:            2", "Overdue:          1", "Completion rate:  50%", "Marketing", "Ship landing page"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestToken(t *testing.T) {
	out, err := run(t, "token", "--subject", "ops", "--secret", "s3cret")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	sub, err := service.NewTokenIssuer("s3cret", 0).Parse(strings.TrimSpace(out))
	if err != nil || sub != "ops" {
		t.Fatalf("parse = %q, %v", sub, err)
	}

	t.Setenv("JWT_SECRET", "")
	if _, err := run(t, "token", "--subject", "ops"); err == nil {
		t.Fatal("expected missing secret error")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil || strings.TrimSpace(out) != "taskctl 1.2.3" {
		t.Fatalf("version = %q, %v", out, err)
	}
}
