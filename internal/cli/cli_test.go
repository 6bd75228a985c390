package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/acme_hr_directory/internal/database"
)

func TestRootCommand_Tree(t *testing.T) {
	root := NewRootCommand()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	for _, name := range []string{"reset", "migrate", "verify"} {
		cmd, _, err := root.Find([]string{"db", name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	reset, _, _ := root.Find([]string{"db", "reset"})
	assert.NotNil(t, reset.Flags().Lookup("yes"))
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		" yes ": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		assert.Equal(t, want, confirm(strings.NewReader(input), &out, "Continue?"), "input %q", input)
		assert.Equal(t, "Continue? [y/N]: ", out.String())
	}
}

func TestResetCommand_Aborts(t *testing.T) {
	cmd := NewDBCommand("db")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetArgs([]string{"reset"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "aborted")
}

func TestWriteState(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeState(&out, database.StateVersionMismatch, "0"))

	var report map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, map[string]string{
		"state":    "version_mismatch",
		"version":  "0",
		"expected": database.SchemaVersion,
	}, report)
}
