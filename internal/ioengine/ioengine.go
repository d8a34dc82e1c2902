// Package ioengine runs BioNetGen (BNG2.pl) as an external process. It
// writes a model with an actions block to a temporary file, runs the
// engine and reads the network or simulation output back.
package ioengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/rbmnet/internal/iofs"
	"github.com/gnames/rbmnet/pkg/bngl"
	"github.com/gnames/rbmnet/pkg/config"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/netfile"
	"github.com/google/uuid"
)

// Perl is the interpreter used to run BNG2.pl.
var Perl = "perl"

// waitDelay bounds the wait for engine output pipes after the engine was
// killed.
const waitDelay = time.Second

// LogHeader separates the network text from the appended engine log.
const LogHeader = "#\n# BioNetGen execution log follows\n# =========="

// Engine runs BioNetGen for network generation and stochastic simulation.
type Engine struct {
	cfg config.EngineConfig
	// stdout receives engine output in verbose mode
	stdout io.Writer
}

// New creates an Engine with the given settings. BNG2.pl location is shared
// by all engines of the process: an engine with a non-empty cfg.Path makes
// that distribution the current one when it runs.
func New(cfg config.EngineConfig) *Engine {
	return &Engine{cfg: cfg, stdout: os.Stdout}
}

// WithWorkDir returns a copy of the engine that keeps temporary files in
// dir.
func (e *Engine) WithWorkDir(dir string) *Engine {
	res := *e
	res.cfg.WorkDir = dir
	return &res
}

// Expand returns the network text BioNetGen generates for the model.
func (e *Engine) Expand(ctx context.Context, m *model.Model) (string, error) {
	req, err := bngl.Request(m, bngl.GenerateNetwork)
	if err != nil {
		return "", err
	}

	j, err := e.newJob(m.Name)
	if err != nil {
		return "", err
	}
	defer e.cleanup(j, ".bngl", ".net")

	out, err := e.run(ctx, j, req)
	if err != nil {
		return "", err
	}

	netPath := j.file(".net")
	data, err := os.ReadFile(netPath)
	if err != nil {
		return "", iofs.ReadFileError(netPath, err)
	}

	res := string(data)
	if e.cfg.AppendStdout {
		res += LogHeader + commentLines(out)
	}
	return res, nil
}

// Simulate runs the stochastic simulator and returns the observables
// trajectories.
func (e *Engine) Simulate(
	ctx context.Context,
	m *model.Model,
	opts bngl.SSAOptions,
) (*netfile.Table, error) {
	req, err := bngl.Request(m, bngl.SimulateSSA(opts))
	if err != nil {
		return nil, err
	}

	j, err := e.newJob(m.Name)
	if err != nil {
		return nil, err
	}
	defer e.cleanup(j, ".bngl", ".gdat", ".cdat", ".net")

	if _, err = e.run(ctx, j, req); err != nil {
		return nil, err
	}

	gdatPath := j.file(".gdat")
	f, err := os.Open(gdatPath)
	if err != nil {
		return nil, iofs.ReadFileError(gdatPath, err)
	}
	defer f.Close()

	return netfile.ReadTable(f)
}

// job is one engine run. All its files share the same base name in dir.
type job struct {
	model string
	dir   string
	base  string
}

func (j job) file(ext string) string {
	return filepath.Join(j.dir, j.base+ext)
}

// TempName returns the base name of temporary files for a model. Process
// id and a random suffix keep parallel runs apart.
func TempName(modelName string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d_%s_temp", modelName, os.Getpid(), suffix)
}

func (e *Engine) newJob(modelName string) (job, error) {
	dir := e.cfg.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := iofs.TouchDir(dir); err != nil {
		return job{}, err
	}
	return job{model: modelName, dir: dir, base: TempName(modelName)}, nil
}

func (e *Engine) cleanup(j job, exts ...string) {
	if !e.cfg.Cleanup {
		slog.Info("Keeping engine files", "dir", j.dir, "base", j.base)
		return
	}
	for _, ext := range exts {
		err := os.Remove(j.file(ext))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Cannot remove engine file", "file", j.file(ext), "error", err)
		}
	}
}

// run writes the request and executes BNG2.pl in the job directory. It
// returns the engine standard output.
func (e *Engine) run(ctx context.Context, j job, req string) (string, error) {
	script, err := resolveEnginePath(e.cfg.Path)
	if err != nil {
		return "", err
	}

	bnglPath := j.file(".bngl")
	if err = iofs.WriteFile(bnglPath, []byte(req)); err != nil {
		return "", err
	}

	if e.cfg.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.TimeoutSec)*time.Second)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, Perl, script, filepath.Base(bnglPath))
	cmd.Dir = j.dir
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)
	cmd.Stdout = &stdout
	if e.cfg.Verbose {
		cmd.Stdout = io.MultiWriter(&stdout, e.stdout)
	}
	cmd.Stderr = &stderr

	start := time.Now()
	slog.Info("Running BioNetGen", "script", script, "file", bnglPath)
	err = cmd.Run()
	dur := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timeout after %d sec: %w", e.cfg.TimeoutSec, err)
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		output := strings.TrimRight(stdout.String(), "\n") + "\n" +
			strings.TrimRight(stderr.String(), "\n")
		return "", NetworkGenerationError(j.model, output, err)
	}

	slog.Info("BioNetGen finished", "file", bnglPath,
		"duration", gnfmt.TimeString(dur.Seconds()))
	return stdout.String(), nil
}

func commentLines(s string) string {
	var sb strings.Builder
	for _, line := range strings.Split(s, "\n") {
		sb.WriteString("\n# " + line)
	}
	return sb.String()
}
