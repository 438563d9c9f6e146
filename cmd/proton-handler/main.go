// proton-handler relaunches a Windows helper inside the Proton prefix of a
// running (or previously seen) game, e.g. Mod Organizer 2 as an nxm:// handler.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrzor/proton-handler/internal/attributes"
	"github.com/mrzor/proton-handler/internal/config"
	"github.com/mrzor/proton-handler/internal/launcher"
	"github.com/mrzor/proton-handler/internal/procmeta"
	"github.com/mrzor/proton-handler/internal/procscan"
	"github.com/mrzor/proton-handler/internal/profile"
)

// Set with -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// exitCode carries the launched child's non-zero exit status out of run.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("proton exited with code %d", int(e)) }

func (e exitCode) ExitCode() int { return int(e) }

func main() {
	if err := run(os.Args, os.Environ(), os.Stdin, os.Stdout, os.Stderr); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		logger := newLogger(os.Stderr, "error")
		logger.Error().Err(err).Msg("Fatal")
		os.Exit(1)
	}
}

func run(args, environ []string, stdin io.Reader, stdout, stderr io.Writer) error {
	program := "proton-handler"
	if len(args) > 0 {
		program = filepath.Base(args[0])
	}

	envCfg, err := config.ParseEnvConfig(environ)
	if err != nil {
		return err
	}

	cfg, err := config.ParseArgs(args, envCfg)
	switch {
	case errors.Is(err, config.ErrHelp):
		fmt.Fprint(stdout, config.Usage(program))
		return nil
	case errors.Is(err, config.ErrNotEnoughArgs):
		logger := newLogger(stderr, envCfg.LogLevel)
		logger.Warn().Msg(err.Error())
		fmt.Fprint(stderr, config.Usage(program))
		return nil
	case err != nil:
		return err
	}

	if cfg.ShowVersion {
		fmt.Fprintf(stdout, "%s %s (commit: %s, built: %s)\n", program, version, commit, date)
		return nil
	}

	logger := newLogger(stderr, cfg.LogLevel)
	store := profile.NewINIStore(cfg.StorePath)

	if cfg.List {
		return listProfiles(store, stdout)
	}

	scanner, err := procscan.NewScanner(cfg.Identifiers)
	if err != nil {
		return err
	}
	scanner.WithProcRoot(cfg.ProcRoot)

	filter, err := attributes.NewFilter(cfg.MatchExpression)
	if err != nil {
		return err
	}

	coordinator := launcher.NewCoordinator(
		scanner,
		procmeta.NewReader(cfg.ProcRoot, cfg.ReadTimeout),
		store,
		filter,
		logger,
	)

	ctx := context.Background()
	discovery, err := coordinator.Discover(ctx, cfg.ExeName)
	if err != nil {
		return err
	}

	p := discovery.Profile
	logger.Info().
		Str("source", string(discovery.Source)).
		Str("dotnet", p.DotnetRoot).
		Str("steam_dir", p.ClientInstallPath).
		Str("prefix", p.DataPath).
		Str("proton", p.Proton).
		Str("app", p.App).
		Str("args", p.Args).
		Strs("link", cfg.PassthroughArgs).
		Msg("Launch environment")

	cmd := launcher.BuildCommand(p, cfg.PassthroughArgs, environ)
	logger.Info().Msg(cmd.String())

	if cfg.DryRun {
		fmt.Fprintln(stdout, cmd.String())
		return nil
	}

	code, err := launcher.Execute(ctx, cmd, launcher.Stdio{Stdin: stdin, Stdout: stdout, Stderr: stderr})
	if err != nil {
		return err
	}
	logger.Info().Int("code", code).Msg("Exit code")

	if code != 0 {
		return exitCode(code)
	}
	return nil
}

func listProfiles(store *profile.INIStore, w io.Writer) error {
	names, err := store.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		p, _, err := store.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.DataPath, p.Proton)
	}
	return nil
}
