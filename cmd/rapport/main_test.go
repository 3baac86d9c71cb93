package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/rapport/internal/instruments"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "rapport v") {
		t.Errorf("output = %q", out)
	}
}

func TestScoreCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.json")
	if err := os.WriteFile(path, []byte(`{"b1": 5, "b3": 5}`), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "score", "brs", path)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var res instruments.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decoding output %q: %v", out, err)
	}
	if res.Overall != 5 || res.Answered != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestScoreCmd_Stdin(t *testing.T) {
	out, err := execute(t, `{"t1": 7}`, "score", "tipi", "-")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !strings.Contains(out, `"instrument": "tipi"`) {
		t.Errorf("output = %q", out)
	}
}

func TestScoreCmd_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"unknown instrument", "{}", []string{"score", "mbti", "-"}},
		{"out of range", `{"b1": 6}`, []string{"score", "brs", "-"}},
		{"bad json", `{"b1":`, []string{"score", "brs", "-"}},
		{"missing file", "", []string{"score", "brs", "/nonexistent/answers.json"}},
		{"wrong arg count", "", []string{"score", "brs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.stdin, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSetup_BadConfig(t *testing.T) {
	if _, _, err := setup(&globalFlags{configPath: "/nonexistent/rapport.yaml"}); err == nil {
		t.Error("expected error for missing config file")
	}
}
