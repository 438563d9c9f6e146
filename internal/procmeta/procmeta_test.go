package procmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/proton-handler/internal/procscan"
)

func TestNewAttributes_NormalizesBlobs(t *testing.T) {
	h := procscan.Handle{PID: 42, Name: "srt-bwrap"}
	environ := []byte("STEAM_COMPAT_DATA_PATH=/pfx\x00EXE=/games/MO2.exe\x00")
	cmdline := []byte("/usr/bin/srt-bwrap\x00--\x00/proton\x00run\x00")

	attrs := NewAttributes(h, environ, cmdline)

	assert.Equal(t, h, attrs.Handle)
	assert.Equal(t, "STEAM_COMPAT_DATA_PATH=/pfx\nEXE=/games/MO2.exe", attrs.EnvironText)
	assert.Equal(t, "/usr/bin/srt-bwrap -- /proton run", attrs.CmdlineText)
	assert.False(t, attrs.Empty())
}

func TestNewAttributes_Empty(t *testing.T) {
	attrs := NewAttributes(procscan.Handle{PID: 2}, nil, []byte("kthreadd\x00"))
	assert.True(t, attrs.Empty())
	assert.Empty(t, attrs.EnvironText)

	attrs = NewAttributes(procscan.Handle{PID: 2}, []byte("A=b\x00"), []byte{})
	assert.True(t, attrs.Empty())
}

func TestNewAttributes_DropsEmptyEnvironEntries(t *testing.T) {
	attrs := NewAttributes(procscan.Handle{PID: 1}, []byte("A=1\x00\x00B=2\x00"), []byte("x\x00"))
	assert.Equal(t, "A=1\nB=2", attrs.EnvironText)
}

func TestAttributes_Metadata(t *testing.T) {
	attrs := NewAttributes(
		procscan.Handle{PID: 7},
		[]byte("SteamAppId=489830\x00HOME=/home/deck\x00"),
		[]byte("reaper\x00SteamLaunch\x00AppId=489830\x00"),
	)

	md := attrs.Metadata()

	assert.Equal(t, map[string]string{"SteamAppId": "489830", "HOME": "/home/deck"}, md.Environ)
	assert.Equal(t, []string{"reaper", "SteamLaunch", "AppId=489830"}, md.Args)
	assert.Equal(t, "reaper SteamLaunch AppId=489830", md.CmdlineFull)
}

func TestAttributes_Issues(t *testing.T) {
	attrs := NewAttributes(procscan.Handle{PID: 1}, []byte("NOEQUALS\x00=VALUE\x00OK=1\x00"), []byte("x\x00"))
	assert.Equal(t, []string{"2 malformed environment entries ignored"}, attrs.issues())

	attrs = NewAttributes(procscan.Handle{PID: 1}, []byte("OK=1\x00"), []byte("x\x00"))
	assert.Nil(t, attrs.issues())
}

func TestSplitNul(t *testing.T) {
	assert.Nil(t, splitNul(nil))
	assert.Equal(t, []string{"a", "b"}, splitNul([]byte("a\x00b\x00")))
	assert.Equal(t, []string{"a", "b"}, splitNul([]byte("a\x00b")))
	assert.Equal(t, []string{"cmd", "", "arg"}, splitNul([]byte("cmd\x00\x00arg\x00")))
}

func TestParseEnviron_Basic(t *testing.T) {
	raw := []string{
		"PATH=/usr/bin:/bin",
		"HOME=/home/user",
		"USER=testuser",
	}

	result := parseEnviron(raw)

	expected := map[string]string{
		"PATH": "/usr/bin:/bin",
		"HOME": "/home/user",
		"USER": "testuser",
	}

	assert.Equal(t, expected, result)
}

func TestParseEnviron_MultipleEquals(t *testing.T) {
	raw := []string{
		"WINEDLLOVERRIDES=steam.exe=b;dotnetfx35.exe=b",
		"EQUATION=x=y=z",
	}

	result := parseEnviron(raw)

	assert.Len(t, result, 2)
	assert.Equal(t, "steam.exe=b;dotnetfx35.exe=b", result["WINEDLLOVERRIDES"])
	assert.Equal(t, "x=y=z", result["EQUATION"])
}

func TestParseEnviron_DuplicateKeys(t *testing.T) {
	result := parseEnviron([]string{"KEY=value1", "KEY=value2"})

	assert.Len(t, result, 1)
	assert.Equal(t, "value2", result["KEY"], "last value should win")
}

func TestParseEnviron_MalformedEntries(t *testing.T) {
	raw := []string{
		"NOEQUALS",
		"=VALUE",
		"VALID=value",
		"",
	}

	result := parseEnviron(raw)

	assert.Len(t, result, 1, "only valid entries should be parsed")
	assert.Contains(t, result, "VALID")
	assert.NotContains(t, result, "")
}

func TestParseCmdline_EmptyArgs(t *testing.T) {
	raw := []string{"cmd", "", "arg"}

	args, fullCmd := parseCmdline(raw)

	require.Len(t, args, 3)
	assert.Equal(t, "", args[1])
	assert.Equal(t, "cmd  arg", fullCmd)
}

func TestParseCmdline_Empty(t *testing.T) {
	args, fullCmd := parseCmdline(nil)

	assert.Empty(t, args)
	assert.Empty(t, fullCmd)
}
