package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/nao1215/leadscan/internal/config"
)

func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()
	tests := []struct {
		name     string
		defValue string
	}{
		{name: "addr", defValue: config.DefaultListenAddress},
		{name: "request-timeout", defValue: config.DefaultRequestTimeout.String()},
		{name: "config", defValue: ""},
		{name: "save", defValue: "false"},
		{name: "mask-contacts", defValue: "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("default = %q, want %q", flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestServeCmdMissingConfig(t *testing.T) {
	t.Parallel()

	_, _, err := executeCommand(t, "serve", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestServeCmdRejectsArgs(t *testing.T) {
	t.Parallel()

	if _, _, err := executeCommand(t, "serve", "extra"); err == nil {
		t.Error("expected an error for positional arguments")
	}
}
