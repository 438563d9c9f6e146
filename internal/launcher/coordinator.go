package launcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrzor/proton-handler/internal/attributes"
	"github.com/mrzor/proton-handler/internal/extract"
	"github.com/mrzor/proton-handler/internal/procmeta"
	"github.com/mrzor/proton-handler/internal/procscan"
	"github.com/mrzor/proton-handler/internal/profile"
)

var (
	// ErrNoDataPath is returned when a matching process exposes no STEAM_COMPAT_DATA_PATH.
	ErrNoDataPath = errors.New("could not determine Proton's current prefix")
	// ErrNoProfile is returned when nothing matches and no profile is stored.
	ErrNoProfile = errors.New("could not find a running process, and no stored config exists")
)

// Source tells where a discovered profile came from.
type Source string

const (
	SourceLive  Source = "live"
	SourceCache Source = "cache"
)

// AttributeReader reads candidate attributes, returning results in input order.
type AttributeReader interface {
	ReadAll(ctx context.Context, handles []procscan.Handle, m *procmeta.Manager) []procmeta.Result
}

// Discovery is the outcome of a successful discovery pass.
type Discovery struct {
	ExeName  string
	Profile  profile.Profile
	Source   Source
	Handle   procscan.Handle  // zero for SourceCache
	Strategy extract.Strategy // zero for SourceCache
}

// Coordinator ties enumeration, attribute reads, extraction and the profile store together.
type Coordinator struct {
	lister procscan.Lister
	reader AttributeReader
	store  profile.Store
	filter *attributes.Filter
	logger zerolog.Logger
}

// NewCoordinator creates a Coordinator. filter may be nil.
func NewCoordinator(lister procscan.Lister, reader AttributeReader, store profile.Store, filter *attributes.Filter, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		lister: lister,
		reader: reader,
		store:  store,
		filter: filter,
		logger: logger,
	}
}

// Discover finds the launch profile of exeName, preferring a live process over the store.
func (c *Coordinator) Discover(ctx context.Context, exeName string) (*Discovery, error) {
	c.logger.Info().Str("app", exeName).Msg("Searching for running process")

	handles, err := c.lister.List(ctx)
	if err != nil {
		// Same as finding nothing: the stored profile may still serve.
		c.logger.Warn().Err(err).Msg("Could not list processes")
		handles = nil
	}
	c.logger.Info().Int("candidates", len(handles)).Msg("Found candidate processes")

	d, err := c.discoverLive(ctx, exeName, handles)
	if err != nil || d != nil {
		return d, err
	}

	stored, found, err := c.store.Get(exeName)
	if err != nil {
		return nil, fmt.Errorf("reading stored profile: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", exeName, ErrNoProfile)
	}

	c.logger.Info().Str("app", exeName).Msg("Could not find running process, but stored config exists")
	return &Discovery{ExeName: exeName, Profile: stored, Source: SourceCache}, nil
}

// discoverLive returns nil, nil when no candidate matches.
func (c *Coordinator) discoverLive(ctx context.Context, exeName string, handles []procscan.Handle) (*Discovery, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	matcher := extract.NewMatcher(exeName)
	for _, r := range c.reader.ReadAll(ctx, handles, procmeta.NewManager()) {
		log := c.logger.With().Int32("pid", r.Handle.PID).Str("name", r.Handle.Name).Logger()

		if r.Err != nil || r.Attributes == nil {
			log.Warn().Err(r.Err).Msg("Skipping process")
			continue
		}
		for _, issue := range r.Issues {
			log.Debug().Str("issue", issue).Msg("Attribute issue")
		}

		allowed, err := c.filter.Allow(r.Handle, r.Attributes.Metadata())
		if err != nil {
			log.Warn().Err(err).Msg("Skipping process")
			continue
		}
		if !allowed {
			log.Debug().Str("match", c.filter.String()).Msg("Rejected by match expression")
			continue
		}

		fields, ok := extract.Extract(r.Attributes, matcher)
		if !ok {
			log.Debug().Msg("Command line does not reference target")
			continue
		}
		log.Info().Str("strategy", string(fields.Strategy)).Msg("Match found")

		p := profile.Profile{
			App:               fields.App,
			Args:              fields.Args,
			Proton:            fields.Proton,
			ClientInstallPath: fields.ClientInstallPath,
			DataPath:          fields.DataPath,
			DotnetRoot:        fields.DotnetRoot,
		}
		if p.DataPath == "" {
			return nil, fmt.Errorf("PID %d: %w", r.Handle.PID, ErrNoDataPath)
		}

		if err := c.store.Put(exeName, p); err != nil {
			return nil, fmt.Errorf("storing profile for %s: %w", exeName, err)
		}
		log.Info().Msg("Found running process, stored profile")

		return &Discovery{
			ExeName:  exeName,
			Profile:  p,
			Source:   SourceLive,
			Handle:   r.Handle,
			Strategy: fields.Strategy,
		}, nil
	}

	return nil, nil
}
