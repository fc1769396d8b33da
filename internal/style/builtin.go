package style

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed profiles/*.yaml
var builtinFS embed.FS

// DefaultName is the profile used when none is requested
const DefaultName = "classic"

var (
	builtinOnce     sync.Once
	builtinProfiles map[string]*Profile
	builtinErr      error
)

// loadBuiltins parses the embedded profiles. Every profile other than the
// default inherits unset values from the default.
func loadBuiltins() {
	builtinOnce.Do(func() {
		builtinProfiles = make(map[string]*Profile)

		data, err := builtinFS.ReadFile(path.Join("profiles", DefaultName+".yaml"))
		if err != nil {
			builtinErr = fmt.Errorf("failed to read default profile: %w", err)
			return
		}
		base, err := Parse(data, nil)
		if err != nil {
			builtinErr = err
			return
		}
		builtinProfiles[base.Name] = base

		entries, err := builtinFS.ReadDir("profiles")
		if err != nil {
			builtinErr = fmt.Errorf("failed to list profiles: %w", err)
			return
		}
		for _, entry := range entries {
			name := strings.TrimSuffix(entry.Name(), ".yaml")
			if name == DefaultName {
				continue
			}
			data, err := builtinFS.ReadFile(path.Join("profiles", entry.Name()))
			if err != nil {
				builtinErr = fmt.Errorf("failed to read profile %s: %w", name, err)
				return
			}
			p, err := Parse(data, base)
			if err != nil {
				builtinErr = err
				return
			}
			builtinProfiles[p.Name] = p
		}
	})
}

// Builtin returns a copy of the named built-in profile.
func Builtin(name string) (*Profile, error) {
	loadBuiltins()
	if builtinErr != nil {
		return nil, builtinErr
	}
	p, ok := builtinProfiles[name]
	if !ok {
		return nil, &ProfileError{Profile: name, Message: fmt.Sprintf("unknown profile (available: %s)", strings.Join(Names(), ", "))}
	}
	return p.Clone(), nil
}

// Default returns a copy of the default profile.
func Default() *Profile {
	p, err := Builtin(DefaultName)
	if err != nil {
		// the embedded default always parses
		panic(fmt.Sprintf("style: %v", err))
	}
	return p
}

// Names lists the built-in profiles, sorted.
func Names() []string {
	loadBuiltins()
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads a profile file (YAML or JSON). Unset values are taken from the
// default profile.
func Load(filePath string) (*Profile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &ProfileError{Profile: filePath, Message: "failed to read profile file", Cause: err}
	}
	return Parse(data, Default())
}

// Resolve returns the profile file at filePath when set, otherwise the named
// built-in, otherwise the default.
func Resolve(name, filePath string) (*Profile, error) {
	if filePath != "" {
		return Load(filePath)
	}
	if name == "" {
		name = DefaultName
	}
	return Builtin(name)
}
