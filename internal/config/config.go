package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/mrzor/proton-handler/internal/procscan"
	"github.com/mrzor/proton-handler/internal/profile"
)

// ErrNotEnoughArgs is returned when the executable name or passthrough arguments are missing.
// It is not a failure: the tool exits successfully after printing usage.
var ErrNotEnoughArgs = errors.New("not enough arguments")

// ErrHelp is returned when -h or --help was requested.
var ErrHelp = pflag.ErrHelp

// Config holds the parsed command-line configuration
type Config struct {
	// ExeName identifies the target executable, e.g. MO2.exe
	ExeName string
	// PassthroughArgs are appended to the relaunched command, e.g. an nxm:// URL
	PassthroughArgs []string
	// StorePath is the profile INI file
	StorePath string
	// Identifiers are the launcher process names to scan for
	Identifiers []string
	// MatchExpression optionally filters candidates
	MatchExpression string
	// ReadTimeout bounds each candidate attribute read
	ReadTimeout time.Duration
	// ProcRoot is the procfs mount point
	ProcRoot string
	// LogLevel is a zerolog level name
	LogLevel string

	DryRun      bool
	List        bool
	ShowVersion bool
}

func newFlagSet(program string, cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet(program, pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&cfg.StorePath, "config", "c", cfg.StorePath, "profile store `path`")
	fs.StringSliceVarP(&cfg.Identifiers, "identifier", "i", cfg.Identifiers, "launcher process `name` to scan for (repeatable)")
	fs.StringVarP(&cfg.MatchExpression, "match", "m", "", "only use candidates for which `expr` is true, e.g. 'env[\"SteamAppId\"] == \"489830\"'")
	fs.DurationVar(&cfg.ReadTimeout, "timeout", cfg.ReadTimeout, "per-candidate attribute read timeout")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "discover and store the profile, print the command, do not launch")
	fs.BoolVar(&cfg.List, "list", false, "list stored profiles and exit")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")
	fs.BoolP("verbose", "v", false, "enable debug logging")
	fs.BoolP("help", "h", false, "show help")

	return fs
}

// ParseArgs parses command-line arguments on top of environment settings.
// Expected format: program_name [flags] <exe-name> <passthrough-arg>...
func ParseArgs(args []string, envCfg *EnvConfig) (*Config, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments provided")
	}
	if envCfg == nil {
		envCfg = &EnvConfig{}
	}

	cfg := &Config{
		StorePath:   envCfg.StorePath,
		Identifiers: envCfg.Identifiers,
		ReadTimeout: envCfg.ReadTimeout,
		ProcRoot:    envCfg.ProcRoot,
		LogLevel:    envCfg.LogLevel,
	}
	if len(cfg.Identifiers) == 0 {
		cfg.Identifiers = procscan.DefaultIdentifiers()
	}

	fs := newFlagSet(args[0], cfg)
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	if help, _ := fs.GetBool("help"); help {
		return nil, ErrHelp
	}
	if verbose, _ := fs.GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	if cfg.StorePath == "" {
		if envCfg.Home == "" && envCfg.XDGConfigHome == "" {
			return nil, fmt.Errorf("cannot locate profile store: neither HOME nor XDG_CONFIG_HOME is set")
		}
		cfg.StorePath = profile.DefaultPath(envCfg.Home, envCfg.XDGConfigHome)
	}
	if cfg.List || cfg.ShowVersion {
		return cfg, nil
	}

	positional := fs.Args()
	if len(positional) < 2 {
		return cfg, fmt.Errorf("%w: received %d, expected at least 2: an app exe name (e.g. MO2.exe) and arguments to pass to the app (e.g. a URL)",
			ErrNotEnoughArgs, len(positional))
	}

	cfg.ExeName = positional[0]
	cfg.PassthroughArgs = positional[1:]

	return cfg, nil
}

// Usage returns the help text for program.
func Usage(program string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [flags] <exe-name> <arg>...\n", program)
	fmt.Fprintf(&b, "Example: %s ModOrganizer.exe nxm://skyrimspecialedition/mods/1\n\n", program)
	b.WriteString("Finds the running Proton instance of <exe-name>, stores its environment,\n")
	b.WriteString("and relaunches <exe-name> inside the same prefix with <arg>...\n")
	b.WriteString("<exe-name> matches literally or as a regular expression.\n\n")
	b.WriteString("Flags:\n")
	b.WriteString(newFlagSet(program, &Config{Identifiers: procscan.DefaultIdentifiers()}).FlagUsages())
	return b.String()
}

