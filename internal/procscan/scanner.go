package procscan

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v3/common"
	"github.com/shirou/gopsutil/v3/process"
)

// Default launcher identifiers, in priority order.
const (
	BwrapIdentifier  = "srt-bwrap"
	ReaperIdentifier = "reaper"
)

// DefaultIdentifiers returns the launcher process names searched when none are configured.
func DefaultIdentifiers() []string {
	return []string{BwrapIdentifier, ReaperIdentifier}
}

// ErrNoIdentifiers is returned when a Scanner is built without any process names.
var ErrNoIdentifiers = errors.New("at least one launcher identifier is required")

// Handle identifies one candidate process for a single discovery pass.
type Handle struct {
	PID  int32
	Name string
}

// Lister lists candidate launcher processes.
type Lister interface {
	List(ctx context.Context) ([]Handle, error)
}

// Scanner lists processes from the OS process table whose name equals one of its identifiers.
type Scanner struct {
	identifiers []string
	procRoot    string
}

// NewScanner creates a Scanner for the given identifiers.
// Duplicate and empty identifiers are dropped; order is preserved.
func NewScanner(identifiers []string) (*Scanner, error) {
	seen := make(map[string]bool, len(identifiers))
	var ids []string
	for _, id := range identifiers {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrNoIdentifiers
	}
	return &Scanner{identifiers: ids}, nil
}

// WithProcRoot makes the Scanner read the process table from root instead of
// /proc, e.g. /run/host/proc inside a Flatpak sandbox.
func (s *Scanner) WithProcRoot(root string) *Scanner {
	s.procRoot = root
	return s
}

// Identifiers returns the process names this Scanner matches.
func (s *Scanner) Identifiers() []string {
	return append([]string(nil), s.identifiers...)
}

// List returns matching processes. An empty result is not an error.
func (s *Scanner) List(ctx context.Context) ([]Handle, error) {
	if s.procRoot != "" {
		ctx = context.WithValue(ctx, common.EnvKey, common.EnvMap{common.HostProcEnvKey: s.procRoot})
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	handles := make([]Handle, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// Exited between listing and reading its name.
			continue
		}
		handles = append(handles, Handle{PID: p.Pid, Name: name})
	}

	return filterByName(handles, s.identifiers), nil
}

// filterByName keeps handles whose name exactly equals an identifier,
// ordered by identifier position and then by PID.
func filterByName(handles []Handle, identifiers []string) []Handle {
	rank := make(map[string]int, len(identifiers))
	for i, id := range identifiers {
		rank[id] = i
	}

	var matched []Handle
	for _, h := range handles {
		if _, ok := rank[h.Name]; ok {
			matched = append(matched, h)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ri, rj := rank[matched[i].Name], rank[matched[j].Name]
		if ri != rj {
			return ri < rj
		}
		return matched[i].PID < matched[j].PID
	})

	return matched
}
