package launcher

import (
	"strings"

	"github.com/alessio/shellescape"

	"github.com/mrzor/proton-handler/internal/profile"
)

// ProtonVerb starts a program in an existing prefix without waiting for the session to end.
const ProtonVerb = "run"

// Command is a fully assembled Proton invocation.
type Command struct {
	Path string
	Args []string
	// Env is the complete child environment.
	Env []string
	// Overrides lists the KEY=VALUE entries merged over the base environment.
	Overrides []string
}

// BuildCommand assembles the relaunch command for p.
// The profile's Args slot is omitted when empty; passthrough arguments follow it.
// baseEnv is typically os.Environ().
func BuildCommand(p profile.Profile, passthrough []string, baseEnv []string) Command {
	args := []string{ProtonVerb, p.App}
	if p.Args != "" {
		args = append(args, p.Args)
	}
	args = append(args, passthrough...)

	overrides := []string{
		profile.KeyDotnetRoot + "=" + p.DotnetRoot,
		profile.KeyClientInstallPath + "=" + p.ClientInstallPath,
		profile.KeyDataPath + "=" + p.DataPath,
	}

	return Command{
		Path:      p.Proton,
		Args:      args,
		Env:       mergeEnv(baseEnv, overrides),
		Overrides: overrides,
	}
}

// String renders the command as a shell line, prefixed by its environment overrides.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Overrides)+1+len(c.Args))
	for _, kv := range c.Overrides {
		k, v, _ := strings.Cut(kv, "=")
		parts = append(parts, k+"="+shellescape.Quote(v))
	}
	parts = append(parts, shellescape.Quote(c.Path))
	for _, a := range c.Args {
		parts = append(parts, shellescape.Quote(a))
	}
	return strings.Join(parts, " ")
}

// mergeEnv replaces base entries whose key is overridden and appends the overrides.
func mergeEnv(base, overrides []string) []string {
	keys := make(map[string]bool, len(overrides))
	for _, kv := range overrides {
		k, _, _ := strings.Cut(kv, "=")
		keys[k] = true
	}

	env := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if keys[k] {
			continue
		}
		env = append(env, kv)
	}
	return append(env, overrides...)
}
