package format

import (
	"bytes"
	"strings"
	"testing"

	"changos/internal/models"
)

func TestJSONFormatterUsesWireKeys(t *testing.T) {
	var buf bytes.Buffer
	task := models.Task{ID: "a1", Ticket: "T-1", Type: models.TypeBug, Environment: models.EnvDevelop}
	if err := (JSONFormatter{}).Write(&buf, task); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"_id":"a1"`, `"enviroment":"develop"`, `"type":"BG"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	tasks := []models.Task{{ID: "a1", Ticket: "T-1", Environment: models.EnvStage}}
	if err := (YAMLFormatter{}).Write(&buf, tasks); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"- id: a1", "  ticket: T-1", "  environment: stage"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "jira_state") {
		t.Fatalf("empty optional fields should be omitted:\n%s", out)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "YAML", "yml"} {
		if _, err := ByName(name); err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
