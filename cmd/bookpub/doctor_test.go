package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRunDoctorReady(t *testing.T) {
	env, _, _ := bufferedEnv(nil)
	result := runDoctor(env)

	if result.Status == "errors" {
		t.Fatalf("doctor reported errors: %v", result.Errors)
	}
	for _, format := range []string{"pdf", "epub", "docx", "txt"} {
		if !result.Formats[format] {
			t.Errorf("format %s reported unavailable", format)
		}
	}
	if !result.System.TempWritable {
		t.Error("expected temp directory to be writable")
	}
}

func TestRunDoctorWarnsOnBadEnv(t *testing.T) {
	env, _, _ := bufferedEnv(func(key string) string {
		switch key {
		case "BOOKPUB_OUTPUT_DIR":
			return "/nonexistent/output"
		case "BOOKPUB_PLATFORM":
			return "lulu"
		}
		return ""
	})
	result := runDoctor(env)

	if result.Status != "warnings" {
		t.Fatalf("Status = %q, expected warnings", result.Status)
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "BOOKPUB_OUTPUT_DIR") {
		t.Errorf("missing output dir warning in %q", joined)
	}
	if !strings.Contains(joined, `"lulu"`) {
		t.Errorf("missing unknown platform warning in %q", joined)
	}
}

func TestRunDoctorCmdJSON(t *testing.T) {
	env, stdout, _ := bufferedEnv(nil)
	if err := runDoctorCmd([]string{"--json"}, env); err != nil {
		t.Fatalf("runDoctorCmd returned error: %v", err)
	}

	var decoded doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, stdout.String())
	}
	if decoded.Status == "" {
		t.Error("decoded result has empty status")
	}
}

func TestRunDoctorCmdHumanReadable(t *testing.T) {
	env, stdout, _ := bufferedEnv(nil)
	if err := runDoctorCmd(nil, env); err != nil {
		t.Fatalf("runDoctorCmd returned error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"Status:", "Formats:", "Config:", "System:"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
