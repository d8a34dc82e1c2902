package ioengine

import (
	"os"
	"path/filepath"
	"sync"
)

// PathEnv is the environment variable with BioNetGen distribution directory.
const PathEnv = "BNGPATH"

// ScriptName is the entry point of BioNetGen.
const ScriptName = "BNG2.pl"

// StandardDirs are checked when neither an explicit path nor BNGPATH is set.
var StandardDirs = []string{
	"/usr/local/share/BioNetGen",
	"c:/Program Files/BioNetGen",
}

// older distributions keep BNG2.pl in Perl2 subdirectory
var scriptSubdirs = []string{"", "Perl2"}

var state struct {
	once sync.Once
	mu   sync.RWMutex
	path string
	err  error
}

// InitEnginePath resolves the BNG2.pl location once per process. The
// override directory, if given, takes priority over BNGPATH and standard
// locations. Later calls return the cached result, use OverrideEnginePath to
// change it.
func InitEnginePath(override string) (string, error) {
	state.once.Do(func() {
		path, err := Discover(override)
		state.mu.Lock()
		state.path, state.err = path, err
		state.mu.Unlock()
	})
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.path, state.err
}

// OverrideEnginePath replaces the cached location with BNG2.pl from dir.
// On error the cached location stays unchanged.
func OverrideEnginePath(dir string) (string, error) {
	path, err := checkDistDir(dir)
	if err != nil {
		return "", err
	}
	state.once.Do(func() {})
	state.mu.Lock()
	state.path, state.err = path, nil
	state.mu.Unlock()
	return path, nil
}

// resolveEnginePath returns BNG2.pl for an engine configured with dir. When
// dir is set and differs from the cached distribution, BNG2.pl from dir
// replaces the cached location.
func resolveEnginePath(dir string) (string, error) {
	path, err := InitEnginePath(dir)
	if dir == "" || (err == nil && inDist(path, dir)) {
		return path, err
	}
	return OverrideEnginePath(dir)
}

func inDist(path, dir string) bool {
	for _, c := range candidates(dir) {
		if filepath.Clean(c) == filepath.Clean(path) {
			return true
		}
	}
	return false
}

func resetEnginePath() {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.once = sync.Once{}
	state.path, state.err = "", nil
}

// Discover finds BNG2.pl without touching the cached location. Search
// order is the override directory, BNGPATH, then StandardDirs. If the
// override or BNGPATH is set but has no BNG2.pl, the search stops there.
func Discover(override string) (string, error) {
	if override != "" {
		return checkDistDir(override)
	}

	if dir, ok := os.LookupEnv(PathEnv); ok {
		path, err := checkDistDir(dir)
		if err != nil {
			return "", EngineNotFoundError(candidates(dir),
				PathEnv+" is set but BNG2.pl could not be found there")
		}
		return path, nil
	}

	var checked []string
	for _, dir := range StandardDirs {
		path, err := checkDistDir(dir)
		if err == nil {
			return path, nil
		}
		checked = append(checked, candidates(dir)...)
	}
	return "", EngineNotFoundError(checked,
		"BioNetGen is not installed in any standard location")
}

func candidates(dir string) []string {
	res := make([]string, len(scriptSubdirs))
	for i, v := range scriptSubdirs {
		res[i] = filepath.Join(dir, v, ScriptName)
	}
	return res
}

// checkDistDir returns the first BNG2.pl found in dir. A script without
// execute permission is rejected.
func checkDistDir(dir string) (string, error) {
	paths := candidates(dir)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode().Perm()&0111 == 0 {
			return "", EngineNotFoundError([]string{path},
				"BNG2.pl does not have executable permissions")
		}
		return path, nil
	}
	return "", EngineNotFoundError(paths, "BNG2.pl could not be found")
}
