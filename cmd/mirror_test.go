package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestMirrorCmd_RejectsUnsupportedResource(t *testing.T) {
	cmd := newMirrorCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"widgets"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for an unsupported resource")
	}
	if !strings.Contains(err.Error(), "unsupported resource") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMirrorCmd_RejectsUnsupportedOutputFormat(t *testing.T) {
	cmd := newMirrorCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"pods", "--output", "json"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for an unsupported output format")
	}
	if !strings.Contains(err.Error(), "unsupported output format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMirrorCmd_RequiresResourceArgument(t *testing.T) {
	cmd := newMirrorCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when the resource argument is missing")
	}
}
