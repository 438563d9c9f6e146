// Package procscan enumerates running Proton launcher processes.
//
// Candidates are selected by exact process name. Two launcher flavours are
// known by default:
//   - srt-bwrap: the pressure-vessel sandbox used by official Valve Proton
//   - reaper: Steam's process supervisor, used by proton-tkg and GE builds
//
// Results are ordered by identifier first, then by ascending PID, so the
// caller's "first match wins" policy is deterministic.
package procscan
