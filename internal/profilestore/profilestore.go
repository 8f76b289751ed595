// Package profilestore is the minimal concrete ProfileStore the daemon
// needs to run end to end. Profile file loading/saving is named an
// out-of-scope, contract-only external collaborator (§1) — this package
// is that collaborator's simplest faithful implementation: one JSON file
// per serial under the configured data directory, falling back to the
// built-in defaults for a never-before-seen device.
package profilestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goxlr-daemon/goxlrd/internal/profile"
)

// Store loads and persists per-serial profile documents as JSON files
// under two subdirectories of a root data directory, mirroring the
// directory-of-files layout the original implementation's profile
// manager uses for user-editable profiles.
type Store struct {
	root string
}

// New returns a Store rooted at dataDir. The directory and its two
// subdirectories are created lazily on first write.
func New(dataDir string) *Store {
	return &Store{root: dataDir}
}

// Load implements supervisor.ProfileStore: it reads the serial's
// profile and mic profile from disk, seeding both with their defaults
// the first time a serial is seen.
func (s *Store) Load(serial string) (*profile.Profile, *profile.MicProfile, error) {
	p := profile.DefaultProfile()
	if err := readJSON(s.profilePath(serial), p); err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("profilestore: loading profile for %s: %w", serial, err)
	}

	m := profile.DefaultMicProfile()
	if err := readJSON(s.micProfilePath(serial), m); err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("profilestore: loading mic profile for %s: %w", serial, err)
	}

	return p, m, nil
}

// Save persists the given serial's current profile and mic profile,
// overwriting whatever was previously stored. Nothing in the daemon
// calls it: profile changes made while a device runs stay in the Device
// Actor's in-memory copy and are not written back here.
func (s *Store) Save(serial string, p *profile.Profile, m *profile.MicProfile) error {
	if err := writeJSON(s.profilePath(serial), p); err != nil {
		return fmt.Errorf("profilestore: saving profile for %s: %w", serial, err)
	}
	if err := writeJSON(s.micProfilePath(serial), m); err != nil {
		return fmt.Errorf("profilestore: saving mic profile for %s: %w", serial, err)
	}
	return nil
}

func (s *Store) profilePath(serial string) string {
	return filepath.Join(s.root, "profiles", serial+".json")
}

func (s *Store) micProfilePath(serial string) string {
	return filepath.Join(s.root, "mic-profiles", serial+".json")
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func writeJSON(path string, src any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	return nil
}
