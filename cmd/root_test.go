package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

func TestBaseRootCmd(t *testing.T) {
	cmd := baseRootCmd()
	assert.Equal(t, "promptpack", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"scan", "pack", "diagnose", "testplan", "doc", "version", "init", "config"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := baseRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
}

func TestTargetRoot(t *testing.T) {
	assert.Equal(t, m.Path("."), targetRoot(nil))
	assert.Equal(t, m.Path("./demo"), targetRoot([]string{"./demo"}))
}

func TestInit(t *testing.T) {
	// init() must have wired all the shared dependencies.
	assert.NotNil(t, ui)
	assert.NotNil(t, fsAdapter)
	assert.NotNil(t, toolRunner)
	assert.NotNil(t, artifactStore)
	assert.NotNil(t, systemClipboard)
	assert.NotNil(t, detector)
	assert.NotNil(t, scanner)
	assert.NotNil(t, diagnostics)
}

func TestNewArtifactMeta(t *testing.T) {
	meta, at := newArtifactMeta("pack")

	assert.Equal(t, "pack", meta.Tool)
	assert.NotEmpty(t, meta.RunID)
	assert.NotEmpty(t, meta.GeneratedAt)
	assert.False(t, at.IsZero())

	other, _ := newArtifactMeta("pack")
	assert.NotEqual(t, meta.RunID, other.RunID)
}
