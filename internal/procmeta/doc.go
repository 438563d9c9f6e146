// Package procmeta reads per-process attributes from the /proc filesystem.
//
// For each candidate process the raw environ and cmdline blobs are read and
// normalized:
//   - environ: NUL-separated KEY=VALUE entries, one entry per line
//   - cmdline: NUL-separated tokens, joined by a single space
//
// Reads are best-effort. A process that exits, denies access, or does not
// answer within the read timeout yields an error for that candidate only.
//
// Manager records per-PID outcomes of a concurrent read pass:
//   - Set(pid, attrs) / Get(pid) - Attributes read successfully
//   - SetError(pid, err) / GetError(pid) - Read failure
//   - AddIssues(pid, issues) / GetIssues(pid) - Non-fatal parse warnings
//
// Thread-safe with RWMutex for concurrent access.
package procmeta
