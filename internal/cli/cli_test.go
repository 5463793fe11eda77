package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodeError(t *testing.T) {
	err := &ExitCodeError{Code: 3}
	assert.Equal(t, "exit code 3", err.Error())
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"monitor":  false,
		"snapshot": false,
		"top":      false,
		"list":     false,
		"version":  false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "subcommand %q not registered", name)
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"refresh", "limit", "sort"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "flag --%s missing", name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestResolveConfigValidatesFlags(t *testing.T) {
	cmd := monitorCmd

	require.NoError(t, cmd.Flags().Set("refresh", "0"))
	t.Cleanup(func() {
		refreshFlag = 0
		cmd.Flags().Lookup("refresh").Changed = false
	})

	_, err := resolveConfig(cmd)
	assert.ErrorContains(t, err, "refresh interval")
}

func TestFinishMonitor(t *testing.T) {
	t.Run("clean return", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, finishMonitor(nil, &out))
		assert.Equal(t, 1, strings.Count(out.String(), "Monitoring stopped"))
	})

	t.Run("interrupt is a success", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, finishMonitor(tea.ErrInterrupted, &out))
		assert.Equal(t, 1, strings.Count(out.String(), "Monitoring stopped"))
	})

	t.Run("real failure", func(t *testing.T) {
		var out bytes.Buffer
		err := finishMonitor(errors.New("terminal vanished"), &out)
		require.ErrorContains(t, err, "dashboard failed")
		assert.Empty(t, out.String())
	})
}

func TestTopForwardsFlagsVerbatim(t *testing.T) {
	// top's own flags must reach the system viewer untouched, not be eaten
	// by cobra.
	assert.True(t, topCmd.DisableFlagParsing)
}
