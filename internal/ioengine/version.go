package ioengine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/gnames/gnlib"
	"github.com/gnames/rbmnet/pkg/config"
)

var versionRe = regexp.MustCompile(`(?i)version\s+v?(\d+\.\d+\.\d+)`)

// EngineVersion returns the version of BioNetGen, for example "v2.9.2".
// Versions older than config.MinEngineVersion are rejected.
func (e *Engine) EngineVersion(ctx context.Context) (string, error) {
	script, err := resolveEnginePath(e.cfg.Path)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, Perl, script, "-v")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err = cmd.Run(); err != nil {
		return "", EngineVersionError("unknown", config.MinEngineVersion,
			fmt.Errorf("%w: %s", err, out.String()))
	}
	return checkVersion(out.String())
}

func checkVersion(output string) (string, error) {
	match := versionRe.FindStringSubmatch(output)
	if match == nil {
		return "", EngineVersionError("unknown", config.MinEngineVersion,
			fmt.Errorf("no version in engine output %q", output))
	}

	version := "v" + match[1]
	if !gnlib.IsVersion(version) {
		return "", EngineVersionError(version, config.MinEngineVersion,
			fmt.Errorf("cannot parse version %s", version))
	}
	if gnlib.CmpVersion(version, config.MinEngineVersion) < 0 {
		return version, EngineVersionError(version, config.MinEngineVersion, nil)
	}
	return version, nil
}
