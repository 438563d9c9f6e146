// Package extract recovers Proton launch fields from a candidate's
// normalized environment and command line.
package extract

import (
	"regexp"
	"strings"

	"github.com/mrzor/proton-handler/internal/procmeta"
)

// ProtonBinary is appended to PROTONPATH to form the compatibility-layer path.
const ProtonBinary = "proton"

// Strategy names the source of the Proton and App fields.
type Strategy string

const (
	StrategyNone    Strategy = ""
	StrategyEnviron Strategy = "environ"
	StrategyCmdline Strategy = "cmdline"
)

var (
	environProtonPath  = regexp.MustCompile(`^PROTONPATH=(.*)$`)
	environAppExe      = regexp.MustCompile(`^EXE=(.*)$`)
	environInstallPath = regexp.MustCompile(`^STEAM_COMPAT_INSTALL_PATH=(.*)$`)
	environDataPath    = regexp.MustCompile(`^STEAM_COMPAT_DATA_PATH=(.*)$`)
	environDotnetRoot  = regexp.MustCompile(`^DOTNET_ROOT=(.*)$`)

	// Steam chains wrappers with "--"; the proton script follows the last
	// one, optionally behind the pressure-vessel container runtime.
	cmdlineProtonPath = regexp.MustCompile(`^.*-- (?:(.*container-runtime) )?(.*/proton) `)
	cmdlineAppExe     = regexp.MustCompile(`proton (waitforexitand)?run (.*\.exe)`)
)

// Fields holds every value recovered from one candidate.
type Fields struct {
	App               string
	Args              string
	Proton            string
	ClientInstallPath string
	DataPath          string
	DotnetRoot        string

	// Strategy records where App and Proton came from.
	Strategy Strategy
}

// Matcher decides whether a command line belongs to the target executable.
type Matcher struct {
	literal string
	re      *regexp.Regexp // nil when exeName is not a valid expression
}

// NewMatcher matches exeName as a literal substring and, when it compiles,
// as an unanchored pattern.
func NewMatcher(exeName string) *Matcher {
	re, err := regexp.Compile(exeName)
	if err != nil {
		re = nil
	}
	return &Matcher{literal: exeName, re: re}
}

// Match reports whether cmdline references the target executable.
func (m *Matcher) Match(cmdline string) bool {
	if strings.Contains(cmdline, m.literal) {
		return true
	}
	return m.re != nil && m.re.MatchString(cmdline)
}

// Extract recovers fields from attrs. The second result is false when the
// command line does not reference the target; Fields is then zero.
func Extract(attrs *procmeta.Attributes, m *Matcher) (Fields, bool) {
	if attrs == nil || !m.Match(attrs.CmdlineText) {
		return Fields{}, false
	}

	env, cmdline := attrs.EnvironText, attrs.CmdlineText

	f := Fields{
		App:      capture(environAppExe, env, 1),
		Proton:   protonFromEnviron(env),
		Strategy: StrategyEnviron,
	}

	// EXE and PROTONPATH are not set by every launcher.
	if f.Proton == "" || f.App == "" {
		f.App = capture(cmdlineAppExe, cmdline, 2)
		f.Proton = capture(cmdlineProtonPath, cmdline, 2)
		f.Strategy = StrategyCmdline
	}
	if f.Proton == "" && f.App == "" {
		f.Strategy = StrategyNone
	}

	f.Args = appArgs(cmdline, f.App)
	f.ClientInstallPath = capture(environInstallPath, env, 1)
	f.DataPath = capture(environDataPath, env, 1)
	f.DotnetRoot = capture(environDotnetRoot, env, 1)

	return f, true
}

func protonFromEnviron(env string) string {
	dir := capture(environProtonPath, env, 1)
	if dir == "" {
		return ""
	}
	return dir + "/" + ProtonBinary
}

// capture returns capture group n of the first line matching re, or "".
func capture(re *regexp.Regexp, text string, n int) string {
	for _, line := range strings.Split(text, "\n") {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return m[n]
	}
	return ""
}

// appArgs returns the trimmed text following "<exe> " on the first line
// that contains it.
func appArgs(cmdline, exe string) string {
	if exe == "" {
		return ""
	}
	needle := exe + " "
	for _, line := range strings.Split(cmdline, "\n") {
		if idx := strings.Index(line, needle); idx >= 0 {
			return strings.TrimSpace(line[idx+len(needle):])
		}
	}
	return ""
}
