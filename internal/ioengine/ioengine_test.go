package ioengine_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/internal/ioengine"
	"github.com/gnames/rbmnet/pkg/bngl"
	"github.com/gnames/rbmnet/pkg/config"
	"github.com/gnames/rbmnet/pkg/errcode"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeBNG = `#!/usr/bin/env perl
use strict;
use warnings;

my $arg = shift @ARGV;
if ($arg eq '-v') {
    print "BioNetGen version 2.9.2\n";
    exit 0;
}

open(my $in, '<', $arg) or die "cannot open $arg";
my $text = do { local $/; <$in> };
close $in;
(my $base = $arg) =~ s/\.bngl$//;

if ($text =~ /^# BioNetGen model fail$/m) {
    print "ABORT: reaction rule bind is invalid\n";
    print STDERR "error at line 3\n";
    exit 1;
}
if ($text =~ /^# BioNetGen model slow$/m) {
    sleep 20;
}
if ($text =~ /^# BioNetGen model spawn$/m) {
    system("sleep 20");
}

print "BNG2.pl processing $arg\n";
if ($text =~ /simulate_ssa/) {
    open(my $g, '>', "$base.gdat") or die;
    print $g "#          time            Ap\n 0.0 0\n 1.0 5\n 2.0 7\n";
    close $g;
    open(my $c, '>', "$base.cdat") or die;
    print $c "#          time\n 0.0\n";
    close $c;
}

open(my $out, '>', "$base.net") or die;
print $out <<'NET';
begin species
    1 A(s~u) A_0
    2 A(s~p) 0
end species
begin reactions
    1 1 2 kp #phos
    2 2 1 kdp #phos(reverse)
end reactions
begin groups
    1 Ap 2
end groups
NET
close $out;
`

// setup installs a fake BNG2.pl and returns its distribution directory.
func setup(t *testing.T) string {
	if _, err := exec.LookPath("perl"); err != nil {
		t.Skip("perl is not installed")
	}
	ioengine.ResetEnginePath()
	t.Cleanup(ioengine.ResetEnginePath)

	dir := t.TempDir()
	script := filepath.Join(dir, ioengine.ScriptName)
	require.NoError(t, os.WriteFile(script, []byte(fakeBNG), 0755))
	return dir
}

func testModel(t *testing.T, name string) *model.Model {
	m := model.New(name)
	a, err := model.NewMonomer("A", []string{"s"}, map[string][]string{"s": {"u", "p"}})
	require.NoError(t, err)
	require.NoError(t, m.AddMonomer(a))
	for _, p := range []string{"kp", "kdp", "A_0"} {
		require.NoError(t, m.AddParameter(&model.Parameter{Name: p, Value: 1}))
	}
	au := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(a, map[string]model.SiteCondition{"s": model.InState("u")}, ""),
	}, "")
	ap := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(a, map[string]model.SiteCondition{"s": model.InState("p")}, ""),
	}, "")
	r, err := model.NewRule("phos", []*model.ComplexPattern{au}, []*model.ComplexPattern{ap},
		"kp", "kdp", true)
	require.NoError(t, err)
	require.NoError(t, m.AddRule(r))
	require.NoError(t, m.AddObservable(&model.Observable{Name: "Ap", Patterns: []*model.ComplexPattern{ap}}))
	require.NoError(t, m.AddInitial(au, model.ParameterRef("A_0")))
	return m
}

func engineConfig(dist, work string) config.EngineConfig {
	cfg := config.New().Engine
	cfg.Path = dist
	cfg.WorkDir = work
	return cfg
}

func TestExpand(t *testing.T) {
	dist := setup(t)
	work := t.TempDir()
	e := ioengine.New(engineConfig(dist, work))

	m := testModel(t, "phos")
	text, err := e.Expand(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "begin species"))
	assert.NotContains(t, text, ioengine.LogHeader)

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, rbmnet.GenerateEquations(context.Background(), m, e))
	assert.Len(t, m.Species, 2)
	assert.Len(t, m.ReactionsBidirectional, 1)
}

func TestExpandOptions(t *testing.T) {
	dist := setup(t)
	work := t.TempDir()
	cfg := engineConfig(dist, work)
	cfg.Cleanup = false
	cfg.AppendStdout = true
	cfg.Verbose = true
	e := ioengine.New(cfg)
	var verbose bytes.Buffer
	e.SetStdout(&verbose)

	text, err := e.Expand(context.Background(), testModel(t, "phos"))
	require.NoError(t, err)
	assert.Contains(t, text, ioengine.LogHeader+"\n# BNG2.pl processing phos_")
	assert.Contains(t, verbose.String(), "BNG2.pl processing")

	bngls, err := filepath.Glob(filepath.Join(work, "phos_*_temp.bngl"))
	require.NoError(t, err)
	require.Len(t, bngls, 1)
	nets, err := filepath.Glob(filepath.Join(work, "phos_*_temp.net"))
	require.NoError(t, err)
	assert.Len(t, nets, 1)

	data, err := os.ReadFile(bngls[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "generate_network({overwrite=>1});")
}

func TestExpandFailure(t *testing.T) {
	dist := setup(t)
	work := t.TempDir()
	e := ioengine.New(engineConfig(dist, work))

	_, err := e.Expand(context.Background(), testModel(t, "fail"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.NetworkGenerationError, gnErr.Code)
	assert.Equal(t, "fail", gnErr.Vars[0])
	assert.Contains(t, gnErr.Vars[1], "ABORT: reaction rule bind is invalid")
	assert.Contains(t, gnErr.Vars[1], "error at line 3")

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExpandTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow engine test in short mode")
	}
	dist := setup(t)
	work := t.TempDir()
	cfg := engineConfig(dist, work)
	cfg.TimeoutSec = 1
	e := ioengine.New(cfg)

	_, err := e.Expand(context.Background(), testModel(t, "slow"))
	require.Error(t, err)
	assert.True(t, model.HasCode(err, errcode.NetworkGenerationError))
	assert.Contains(t, err.(*gn.Error).Err.Error(), "timeout after 1 sec")

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExpandTimeoutChildProcess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow engine test in short mode")
	}
	dist := setup(t)
	work := t.TempDir()
	cfg := engineConfig(dist, work)
	cfg.TimeoutSec = 1
	e := ioengine.New(cfg)

	start := time.Now()
	_, err := e.Expand(context.Background(), testModel(t, "spawn"))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.True(t, model.HasCode(err, errcode.NetworkGenerationError))
	assert.Contains(t, err.(*gn.Error).Err.Error(), "timeout after 1 sec")

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExpandPreconditions(t *testing.T) {
	work := t.TempDir()
	e := ioengine.New(engineConfig("/no/such/dir", work))

	_, err := e.Expand(context.Background(), model.New("empty"))
	assert.True(t, model.HasCode(err, errcode.NoRulesError))

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSimulate(t *testing.T) {
	dist := setup(t)
	work := t.TempDir()
	e := ioengine.New(engineConfig(dist, work))

	tbl, err := e.Simulate(context.Background(), testModel(t, "phos"),
		bngl.SSAOptions{TEnd: 2, NSteps: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "Ap"}, tbl.Columns)
	assert.Equal(t, []float64{0, 5, 7}, tbl.Column("Ap"))

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnginesWithDifferentPaths(t *testing.T) {
	dist := setup(t)
	older := t.TempDir()
	script := "#!/usr/bin/env perl\nprint \"BioNetGen version 2.8.0\\n\";\n"
	require.NoError(t, os.WriteFile(filepath.Join(older, ioengine.ScriptName), []byte(script), 0755))

	v, err := ioengine.New(engineConfig(dist, "")).EngineVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.9.2", v)

	v, err = ioengine.New(engineConfig(older, "")).EngineVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.8.0", v)

	v, err = ioengine.New(engineConfig("", "")).EngineVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.8.0", v)
}

func TestEngineVersion(t *testing.T) {
	dist := setup(t)
	e := ioengine.New(engineConfig(dist, ""))
	v, err := e.EngineVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.9.2", v)
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		msg, output, version string
		err                  bool
	}{
		{"current", "BioNetGen version 2.9.2\n", "v2.9.2", false},
		{"minimal", "BioNetGen version 2.3.0", "v2.3.0", false},
		{"old", "BioNetGen version 2.1.8", "v2.1.8", true},
		{"garbage", "hello", "", true},
	}
	for _, v := range tests {
		res, err := ioengine.CheckVersion(v.output)
		assert.Equal(t, v.version, res, v.msg)
		if v.err {
			assert.True(t, model.HasCode(err, errcode.EngineVersionError), v.msg)
		} else {
			assert.NoError(t, err, v.msg)
		}
	}
}

func TestTempName(t *testing.T) {
	a := ioengine.TempName("egfr")
	b := ioengine.TempName("egfr")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "egfr_"))
	assert.True(t, strings.HasSuffix(a, "_temp"))
}
