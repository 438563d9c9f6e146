package profile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/ini.v1"
)

// Keys of a profile section.
const (
	KeyApp               = "APP"
	KeyArgs              = "ARGS"
	KeyProton            = "PROTON"
	KeyClientInstallPath = "STEAM_COMPAT_CLIENT_INSTALL_PATH"
	KeyDataPath          = "STEAM_COMPAT_DATA_PATH"
	KeyDotnetRoot        = "DOTNET_ROOT"
)

// DefaultRelPath is the store location relative to the user configuration directory.
const DefaultRelPath = "proton-handler/config.ini"

// DefaultPath returns $XDG_CONFIG_HOME/proton-handler/config.ini, falling back
// to $HOME/.config when XDG_CONFIG_HOME is unset.
func DefaultPath(home, xdgConfigHome string) string {
	if xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, DefaultRelPath)
	}
	return filepath.Join(home, ".config", DefaultRelPath)
}

// loadOptions keep values verbatim: a trailing backslash (Z:\games\) is not a
// line continuation and surrounding quotes are part of the value.
var loadOptions = ini.LoadOptions{
	Loose:                   true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// INIStore keeps one INI section per target executable.
type INIStore struct {
	path string
}

// NewINIStore creates a store backed by the file at path. The file is created on first Put.
func NewINIStore(path string) *INIStore {
	return &INIStore{path: path}
}

// Path returns the backing file path.
func (s *INIStore) Path() string {
	return s.path
}

func (s *INIStore) load() (*ini.File, error) {
	// Loose: a missing file is an empty store.
	cfg, err := ini.LoadSources(loadOptions, s.path)
	if err != nil {
		return nil, fmt.Errorf("loading profiles from %s: %w", s.path, err)
	}
	return cfg, nil
}

// Get returns the stored profile for name. Sections without a data path are ignored.
func (s *INIStore) Get(name string) (Profile, bool, error) {
	cfg, err := s.load()
	if err != nil {
		return Profile{}, false, err
	}

	sec, err := cfg.GetSection(name)
	if err != nil {
		return Profile{}, false, nil
	}

	p := readProfile(sec)
	if p.Validate() != nil {
		return Profile{}, false, nil
	}
	return p, true, nil
}

func readProfile(sec *ini.Section) Profile {
	return Profile{
		App:               sec.Key(KeyApp).String(),
		Args:              sec.Key(KeyArgs).String(),
		Proton:            sec.Key(KeyProton).String(),
		ClientInstallPath: sec.Key(KeyClientInstallPath).String(),
		DataPath:          sec.Key(KeyDataPath).String(),
		DotnetRoot:        sec.Key(KeyDotnetRoot).String(),
	}
}

func profileKeys(p Profile) []struct{ key, value string } {
	return []struct{ key, value string }{
		{KeyApp, p.App},
		{KeyArgs, p.Args},
		{KeyProton, p.Proton},
		{KeyClientInstallPath, p.ClientInstallPath},
		{KeyDataPath, p.DataPath},
		{KeyDotnetRoot, p.DotnetRoot},
	}
}

// Put replaces the section for name and atomically rewrites the file.
// Other sections are preserved. A profile whose values would not read back
// unchanged is rejected with ErrInvalidProfile and the file is left alone.
func (s *INIStore) Put(name string, p Profile) error {
	if name == "" {
		return fmt.Errorf("%w: empty executable name", ErrInvalidProfile)
	}
	if err := p.Validate(); err != nil {
		return err
	}

	cfg, err := s.load()
	if err != nil {
		return err
	}

	cfg.DeleteSection(name)
	sec, err := cfg.NewSection(name)
	if err != nil {
		return fmt.Errorf("creating section %q: %w", name, err)
	}

	for _, kv := range profileKeys(p) {
		if _, err := sec.NewKey(kv.key, kv.value); err != nil {
			return fmt.Errorf("setting %s for %q: %w", kv.key, name, err)
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := verifyEncoded(buf.Bytes(), name, p); err != nil {
		return err
	}

	return s.write(buf.Bytes())
}

// verifyEncoded parses data the way Get does and checks that name reads back as p.
func verifyEncoded(data []byte, name string, p Profile) error {
	cfg, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return fmt.Errorf("re-reading encoded profiles: %w", err)
	}
	sec, err := cfg.GetSection(name)
	if err != nil {
		return fmt.Errorf("re-reading encoded profiles: %w", err)
	}

	got := profileKeys(readProfile(sec))
	for i, kv := range profileKeys(p) {
		if got[i].value != kv.value {
			return fmt.Errorf("%w: %s value %q cannot be stored in INI form", ErrInvalidProfile, kv.key, kv.value)
		}
	}
	return nil
}

// List returns the names of all stored profiles, sorted.
func (s *INIStore) List() ([]string, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		if sec.Key(KeyDataPath).String() == "" {
			continue
		}
		names = append(names, sec.Name())
	}
	sort.Strings(names)
	return names, nil
}

// write replaces the store file with a fully synced temporary file.
func (s *INIStore) write(data []byte) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary profile file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name()) //nolint:errcheck // Best-effort cleanup in error path
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // Write error takes precedence
		return fmt.Errorf("writing profiles: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // Sync error takes precedence
		return fmt.Errorf("syncing profiles: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing profiles: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("setting profile file mode: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dir, err)
	}
	defer func() {
		_ = d.Close() //nolint:errcheck // Read-only handle
	}()

	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return fmt.Errorf("syncing %s: %w", dir, err)
	}
	return nil
}
