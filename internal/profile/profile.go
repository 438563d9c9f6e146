// Package profile persists the last known Proton launch environment per
// target executable.
package profile

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned for profiles that cannot be used to relaunch Proton.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is the launch environment observed for one target executable.
type Profile struct {
	App               string // Target executable path inside the prefix
	Args              string // Arguments the target was started with, may be empty
	Proton            string // Path to the proton script
	ClientInstallPath string // STEAM_COMPAT_CLIENT_INSTALL_PATH
	DataPath          string // STEAM_COMPAT_DATA_PATH, the prefix; required
	DotnetRoot        string // DOTNET_ROOT, empty when unset
}

// Validate reports whether the profile can be persisted and relaunched.
func (p Profile) Validate() error {
	if p.DataPath == "" {
		return fmt.Errorf("%w: compatibility data path is empty", ErrInvalidProfile)
	}
	return nil
}

// Store reads and writes profiles keyed by target executable name.
type Store interface {
	// Get returns the profile for name. The bool is false when none is stored.
	Get(name string) (Profile, bool, error)
	// Put replaces every field of the profile for name and persists it before returning.
	Put(name string, p Profile) error
}
