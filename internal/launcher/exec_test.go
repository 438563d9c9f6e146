package launcher

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script standing in for proton.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "proton")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestExecute_PassesArgsAndEnv(t *testing.T) {
	path := writeScript(t, `echo "$1|$2|$3|$STEAM_COMPAT_DATA_PATH"`)
	cmd := Command{
		Path: path,
		Args: []string{"run", "/g/MO2.exe", "nxm://x"},
		Env:  []string{"STEAM_COMPAT_DATA_PATH=/pfx"},
	}
	var stdout bytes.Buffer

	code, err := Execute(context.Background(), cmd, Stdio{Stdout: &stdout})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "run|/g/MO2.exe|nxm://x|/pfx\n", stdout.String())
}

func TestExecute_ReportsExitCode(t *testing.T) {
	code, err := Execute(context.Background(), Command{Path: writeScript(t, "exit 3")}, Stdio{})

	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestExecute_Signaled(t *testing.T) {
	code, err := Execute(context.Background(), Command{Path: writeScript(t, "kill -TERM $$")}, Stdio{})

	require.NoError(t, err)
	assert.Equal(t, 128+15, code)
}

func TestExecute_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proton")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644))

	_, err := Execute(context.Background(), Command{Path: path}, Stdio{})
	assert.Error(t, err)

	_, err = Execute(context.Background(), Command{Path: filepath.Join(t.TempDir(), "missing")}, Stdio{})
	assert.Error(t, err)
}

func TestExecute_EmptyPath(t *testing.T) {
	_, err := Execute(context.Background(), Command{}, Stdio{})
	assert.Error(t, err)
}
