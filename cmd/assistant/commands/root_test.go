// ABOUTME: Tests for the root command and version output
// ABOUTME: Verifies subcommand registration and flag exclusivity

package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"chat", "ingest", "list", "search", "sync", "mcp", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCmd_VerboseAndQuietAreExclusive(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"version", "--verbose", "--quiet"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for --verbose with --quiet")
	}
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3", "abc1234", "2026-08-01")
	defer SetVersion("dev", "none", "unknown")

	var out bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	got := out.String()
	if !strings.Contains(got, "1.2.3") || !strings.Contains(got, "abc1234") {
		t.Errorf("version output = %q", got)
	}
}
