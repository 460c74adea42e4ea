package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseTaskType(t *testing.T) {
	tests := []struct {
		raw  string
		want TaskType
	}{
		{raw: "BG", want: TypeBug},
		{raw: " bg ", want: TypeBug},
		{raw: "bug", want: TypeBug},
		{raw: "Feature", want: TypeFeature},
		{raw: "hot fix", want: TypeHotfix},
		{raw: "HF", want: TypeHotfix},
	}
	for _, tt := range tests {
		got, err := ParseTaskType(tt.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("parse %q: expected %q, got %q", tt.raw, tt.want, got)
		}
	}

	if _, err := ParseTaskType("epic"); err == nil {
		t.Fatal("expected invalid type error")
	}
	if _, err := ParseTaskType(" "); err == nil {
		t.Fatal("expected required type error")
	}
}

func TestParseEnvironment(t *testing.T) {
	got, err := ParseEnvironment(" STAGE ")
	if err != nil {
		t.Fatalf("parse environment: %v", err)
	}
	if got != EnvStage {
		t.Fatalf("expected %q, got %q", EnvStage, got)
	}
	if _, err := ParseEnvironment("qa"); err == nil {
		t.Fatal("expected invalid environment error")
	}
}

func TestParseOptionalEnums(t *testing.T) {
	state, err := ParseJiraState("In   Testing")
	if err != nil {
		t.Fatalf("parse jira state: %v", err)
	}
	if state != JiraInTesting {
		t.Fatalf("expected %q, got %q", JiraInTesting, state)
	}
	if state, err := ParseJiraState(""); err != nil || state != "" {
		t.Fatalf("expected empty jira state to clear, got %q (%v)", state, err)
	}
	if _, err := ParseJiraState("archived"); err == nil {
		t.Fatal("expected invalid jira state error")
	}
	if len(JiraStates()) != 8 {
		t.Fatalf("expected 8 jira states, got %d", len(JiraStates()))
	}

	app, err := ParseApp("WEB")
	if err != nil || app != AppWeb {
		t.Fatalf("expected web app, got %q (%v)", app, err)
	}
	if app, err := ParseApp(" Mobile "); err != nil || app != AppMobile {
		t.Fatalf("expected mobile alias for app client, got %q (%v)", app, err)
	}
	if _, err := ParseApp("desktop"); err == nil {
		t.Fatal("expected invalid app error")
	}
}

func TestTaskWireFormat(t *testing.T) {
	task := Task{
		Ticket:      "T-1",
		Type:        TypeFeature,
		Environment: EnvTest,
		Dev:         "arol",
	}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)
	if strings.Contains(body, "_id") {
		t.Fatalf("unpersisted task must not carry an id: %s", body)
	}
	if !strings.Contains(body, `"enviroment":"test"`) {
		t.Fatalf("expected remote environment key, got %s", body)
	}
	if strings.Contains(body, "jira_state") || strings.Contains(body, `"app"`) {
		t.Fatalf("expected empty optional fields to be omitted, got %s", body)
	}

	var decoded Task
	if err := json.Unmarshal([]byte(`{"_id":"64a1","ticket":"T-2","type":"HF","done":true,"enviroment":"production","app":"web"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Persisted() || decoded.ID != "64a1" {
		t.Fatalf("expected persisted task with id, got %+v", decoded)
	}
	if decoded.Environment != EnvProduction || decoded.App != AppWeb || !decoded.Done {
		t.Fatalf("unexpected decoded task: %+v", decoded)
	}
	if decoded.Editable().ID != "" {
		t.Fatal("expected editable copy without id")
	}
}

func TestDefaultTask(t *testing.T) {
	task := DefaultTask("jean")
	if task.Type != TypeBug || task.Environment != EnvDevelop || task.Dev != "jean" {
		t.Fatalf("unexpected defaults: %+v", task)
	}
	if task.Persisted() || task.Done {
		t.Fatalf("expected fresh draft, got %+v", task)
	}
}
