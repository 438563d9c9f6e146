package procmeta

import (
	"fmt"
	"strings"

	"github.com/mrzor/proton-handler/internal/procscan"
)

// ProcessMetadata holds structured process information for expression evaluation.
type ProcessMetadata struct {
	Environ     map[string]string // Parsed environment variables
	Args        []string          // Command-line arguments
	CmdlineFull string            // Full command line as single string
}

// Attributes is the normalized environment and command line of one candidate process.
type Attributes struct {
	Handle procscan.Handle

	// EnvironText holds one KEY=VALUE entry per line.
	EnvironText string
	// CmdlineText holds the command-line tokens joined by a single space.
	CmdlineText string

	env  []string
	args []string
}

// NewAttributes normalizes raw NUL-separated environ and cmdline blobs.
func NewAttributes(h procscan.Handle, environ, cmdline []byte) *Attributes {
	env := nonEmpty(splitNul(environ))
	args := splitNul(cmdline)

	return &Attributes{
		Handle:      h,
		EnvironText: strings.Join(env, "\n"),
		CmdlineText: strings.Join(args, " "),
		env:         env,
		args:        args,
	}
}

// Empty reports whether either blob carried no data.
func (a *Attributes) Empty() bool {
	return len(a.env) == 0 || len(a.args) == 0
}

// Metadata returns the structured view of the attributes.
func (a *Attributes) Metadata() *ProcessMetadata {
	args, full := parseCmdline(a.args)
	return &ProcessMetadata{
		Environ:     parseEnviron(a.env),
		Args:        args,
		CmdlineFull: full,
	}
}

// issues reports environment entries that are not KEY=VALUE pairs.
func (a *Attributes) issues() []string {
	malformed := 0
	for _, entry := range a.env {
		if strings.IndexByte(entry, '=') <= 0 {
			malformed++
		}
	}
	if malformed == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%d malformed environment entries ignored", malformed)}
}

// splitNul splits a NUL-separated blob. A single trailing NUL terminates the
// last entry and does not produce an empty one.
func splitNul(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	s := strings.TrimSuffix(string(data), "\x00")
	return strings.Split(s, "\x00")
}

func nonEmpty(entries []string) []string {
	out := entries[:0]
	for _, e := range entries {
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// parseEnviron converts KEY=VALUE entries to a map. Later duplicates win;
// entries without a key are skipped.
func parseEnviron(raw []string) map[string]string {
	env := make(map[string]string, len(raw))
	for _, entry := range raw {
		if idx := strings.IndexByte(entry, '='); idx > 0 {
			env[entry[:idx]] = entry[idx+1:]
		}
	}
	return env
}

// parseCmdline returns the argument list and the space-joined command line.
func parseCmdline(raw []string) ([]string, string) {
	args := make([]string, len(raw))
	copy(args, raw)
	return args, strings.Join(raw, " ")
}
