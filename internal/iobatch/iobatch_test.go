package iobatch_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gnames/rbmnet/internal/iobatch"
	"github.com/gnames/rbmnet/internal/iostore"
	"github.com/gnames/rbmnet/pkg/config"
	"github.com/gnames/rbmnet/pkg/errcode"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelYAML = `name: %s
monomers:
  - name: A
    sites: [s]
    states:
      s: [u, p]
parameters:
  - {name: kp, value: 1}
  - {name: kdp, value: 1}
  - {name: A_0, value: 100}
observables:
  - name: Ap
    patterns: ["A(s~p)"]
rules:
  - name: phos
    rule: "A(s~u) <-> A(s~p)"
    forward: kp
    reverse: kdp
initials:
  - {pattern: "A(s~u)", parameter: A_0}
`

const netText = `begin species
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
`

type fakeExpander struct {
	dir string
	mu  *sync.Mutex
	// dirs collects work dirs of all expanders.
	dirs map[string]string
}

func (f fakeExpander) Expand(_ context.Context, m *model.Model) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs[m.Name] = f.dir
	// work dir must exist while the engine runs
	if _, err := os.Stat(f.dir); err != nil {
		return "", err
	}
	return netText, nil
}

func writeModels(t *testing.T, names ...string) []string {
	dir := t.TempDir()
	res := make([]string, len(names))
	for i, n := range names {
		path := filepath.Join(dir, n+".yaml")
		txt := []byte(modelYAMLFor(n))
		require.Nil(t, os.WriteFile(path, txt, 0644))
		res[i] = path
	}
	return res
}

func modelYAMLFor(name string) string {
	if name == "broken" {
		return "name: broken\nmonomers: [\n"
	}
	return fmt.Sprintf(modelYAML, name)
}

func testConfig(t *testing.T, cleanup bool) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptEngineWorkDir(t.TempDir()),
		config.OptEngineCleanup(cleanup),
		config.OptJobsNumber(2),
	})
	return cfg
}

func factory() (iobatch.ExpanderFactory, map[string]string) {
	var mu sync.Mutex
	dirs := make(map[string]string)
	return func(dir string) rbmnet.Expander {
		return fakeExpander{dir: dir, mu: &mu, dirs: dirs}
	}, dirs
}

func TestGenerate(t *testing.T) {
	cfg := testConfig(t, true)
	newExp, dirs := factory()
	var mu sync.Mutex
	var generated []string
	b := iobatch.New(cfg, newExp, iobatch.OptOnGenerate(func(m *model.Model) {
		mu.Lock()
		defer mu.Unlock()
		generated = append(generated, m.Name)
	}))

	paths := writeModels(t, "one", "broken", "two", "three")
	res, err := b.Generate(context.Background(), paths)
	require.Nil(t, err)
	require.Len(t, res, 4)

	for i, r := range res {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.Nil(t, res[1].Model)
	assert.NotNil(t, res[1].Err)

	for _, i := range []int{0, 2, 3} {
		require.Nil(t, res[i].Err)
		assert.True(t, res[i].Model.Generated())
		assert.Len(t, res[i].Model.Species, 2)
	}
	assert.ElementsMatch(t, []string{"one", "two", "three"}, generated)

	// every model got its own work dir, removed afterwards
	assert.Len(t, dirs, 3)
	seen := make(map[string]struct{})
	for _, d := range dirs {
		assert.Equal(t, cfg.Engine.WorkDir, filepath.Dir(d))
		seen[d] = struct{}{}
		_, err := os.Stat(d)
		assert.True(t, os.IsNotExist(err))
	}
	assert.Len(t, seen, 3)
}

func TestGenerateKeepFiles(t *testing.T) {
	cfg := testConfig(t, false)
	newExp, dirs := factory()
	b := iobatch.New(cfg, newExp)
	_, err := b.Generate(context.Background(), writeModels(t, "one"))
	require.Nil(t, err)
	_, err = os.Stat(dirs["one"])
	assert.Nil(t, err)
}

func TestGenerateStore(t *testing.T) {
	cfg := testConfig(t, true)
	newExp, _ := factory()
	s, err := iostore.NewSQLite(filepath.Join(t.TempDir(), "n.sqlite"))
	require.Nil(t, err)
	defer s.Close()

	b := iobatch.New(cfg, newExp, iobatch.OptStore(s))
	res, err := b.Generate(context.Background(), writeModels(t, "one", "two"))
	require.Nil(t, err)
	for _, r := range res {
		assert.Nil(t, r.Err)
	}

	list, err := s.List(context.Background())
	require.Nil(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "one", list[0].Model)
}

func TestGenerateMissingFile(t *testing.T) {
	cfg := testConfig(t, true)
	newExp, _ := factory()
	b := iobatch.New(cfg, newExp)
	res, err := b.Generate(context.Background(), []string{"/no/such/model.yaml"})
	require.Nil(t, err)
	require.Len(t, res, 1)
	assert.True(t, model.HasCode(res[0].Err, errcode.ReadFileError))
}

func TestGenerateCancelled(t *testing.T) {
	cfg := testConfig(t, true)
	newExp, _ := factory()
	b := iobatch.New(cfg, newExp)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Generate(ctx, writeModels(t, "one", "two"))
	assert.ErrorIs(t, err, context.Canceled)
}
