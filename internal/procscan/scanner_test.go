package procscan

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScanner_RequiresIdentifier(t *testing.T) {
	_, err := NewScanner(nil)
	require.ErrorIs(t, err, ErrNoIdentifiers)

	_, err = NewScanner([]string{"", ""})
	require.ErrorIs(t, err, ErrNoIdentifiers)
}

func TestNewScanner_DedupesIdentifiers(t *testing.T) {
	s, err := NewScanner([]string{"reaper", "", "srt-bwrap", "reaper"})
	require.NoError(t, err)
	assert.Equal(t, []string{"reaper", "srt-bwrap"}, s.Identifiers())
}

func TestDefaultIdentifiers(t *testing.T) {
	assert.Equal(t, []string{"srt-bwrap", "reaper"}, DefaultIdentifiers())
}

func TestFilterByName(t *testing.T) {
	handles := []Handle{
		{PID: 900, Name: "reaper"},
		{PID: 10, Name: "bash"},
		{PID: 500, Name: "srt-bwrap"},
		{PID: 42, Name: "reaper"},
		{PID: 77, Name: "srt-bwrap-helper"},
		{PID: 300, Name: "srt-bwrap"},
	}

	got := filterByName(handles, []string{"srt-bwrap", "reaper"})

	assert.Equal(t, []Handle{
		{PID: 300, Name: "srt-bwrap"},
		{PID: 500, Name: "srt-bwrap"},
		{PID: 42, Name: "reaper"},
		{PID: 900, Name: "reaper"},
	}, got)
}

func TestFilterByName_NoMatch(t *testing.T) {
	got := filterByName([]Handle{{PID: 1, Name: "init"}}, []string{"reaper"})
	assert.Empty(t, got)
}

func TestScanner_ListLiveProcess(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("process names are read from /proc")
	}

	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill() //nolint:errcheck // Best-effort cleanup
		_ = cmd.Wait()         //nolint:errcheck // Reap killed child
	})

	s, err := NewScanner([]string{"sleep"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	handles, err := s.List(ctx)
	require.NoError(t, err)

	found := false
	for _, h := range handles {
		assert.Equal(t, "sleep", h.Name)
		//nolint:gosec // PIDs fit in int32 on Linux
		if h.PID == int32(cmd.Process.Pid) {
			found = true
		}
	}
	assert.True(t, found, "child PID %d not listed", cmd.Process.Pid)
}

func TestScanner_WithProcRoot(t *testing.T) {
	s, err := NewScanner([]string{"reaper"})
	require.NoError(t, err)

	assert.Same(t, s, s.WithProcRoot("/run/host/proc"))
	assert.Equal(t, "/run/host/proc", s.procRoot)
}

func TestScanner_ListFromProcRoot(t *testing.T) {
	// gopsutil checks liveness by signalling the PID, so the fake entry
	// reuses this test's own PID.
	root := t.TempDir()
	dir := filepath.Join(root, strconv.Itoa(os.Getpid()))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "comm"), []byte("reaper\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "status"), []byte("Name:\treaper\n"), 0o644))

	s, err := NewScanner([]string{"reaper"})
	require.NoError(t, err)

	handles, err := s.WithProcRoot(root).List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []Handle{{PID: int32(os.Getpid()), Name: "reaper"}}, handles)
}
