// Package attributes evaluates candidate filter expressions against process
// metadata.
//
// Expressions use the expr language and see:
//   - env: map[string]string - Environment of the candidate
//   - args: []string - Command-line arguments
//   - cmdline: string - Full command line
//   - pid: int - Process ID
//   - name: string - Process name (srt-bwrap, reaper, ...)
//
// Expressions must evaluate to a bool.
package attributes
