package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "wpstack", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range []string{"init", "apply", "verify", "version", "completion"} {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), 5)
}

func TestRoot_LogFlags(t *testing.T) {
	cmd := Root()

	level := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, level)
	assert.Equal(t, "info", level.DefValue)

	format := cmd.PersistentFlags().Lookup("log-format")
	require.NotNil(t, format)
	assert.Equal(t, "tint", format.DefValue)
}

func TestRoot_RejectsUnknownLogFormat(t *testing.T) {
	root := Root()
	root.SetArgs([]string{"--log-format", "xml", "version"})
	root.SetOut(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown logging type")
}

func TestApply_Flags(t *testing.T) {
	cmd := Apply()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"config", "c", ""},
		{"yes", "y", "false"},
		{"dry-run", "", "false"},
		{"plain", "", "false"},
		{"ssh-host", "", ""},
		{"ssh-user", "", "root"},
		{"ssh-port", "", "22"},
		{"monitor", "", "0s"},
		{"interval", "", (10 * time.Second).String()},
		{"output", "o", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "flag %s should exist", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
	assert.NotNil(t, cmd.RunE)
}

func TestVerify_Flags(t *testing.T) {
	cmd := Verify()

	assert.Equal(t, "verify", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup("watch"))
	require.NotNil(t, cmd.Flags().Lookup("ssh-host"))
	assert.Equal(t, "w", cmd.Flags().Lookup("watch").Shorthand)
}

func TestIntervalDefaultsToStatusInterval(t *testing.T) {
	t.Setenv("WPSTACK_STATUS_INTERVAL", "30s")

	assert.Equal(t, "30s", Apply().Flags().Lookup("interval").DefValue)
	assert.Equal(t, "30s", Verify().Flags().Lookup("interval").DefValue)
}

func TestInit_OutputFlag(t *testing.T) {
	cmd := Init()

	flag := cmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "wpstack.yaml", flag.DefValue)
}

func TestVersion_Output(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() { version, commit, date = origVersion, origCommit, origDate })

	SetVersionInfo("1.2.3", "abc123", "2026-01-01")

	var out bytes.Buffer
	cmd := Version()
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "wpstack 1.2.3")
	assert.Contains(t, out.String(), "commit: abc123")
	assert.Contains(t, out.String(), "built:  2026-01-01")
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := Root()
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})

			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "wpstack")
		})
	}
}

func TestCompletion_RejectsUnknownShell(t *testing.T) {
	root := Root()
	root.SetArgs([]string{"completion", "tcsh"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}
