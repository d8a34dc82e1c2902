package iometrics_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/rbmnet/internal/iometrics"
	"github.com/gnames/rbmnet/pkg/bngl"
	"github.com/gnames/rbmnet/pkg/errcode"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/netfile"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	err error
}

func (f fakeEngine) Expand(_ context.Context, _ *model.Model) (string, error) {
	return "net", f.err
}

func (f fakeEngine) Simulate(
	_ context.Context, _ *model.Model, _ bngl.SSAOptions,
) (*netfile.Table, error) {
	return &netfile.Table{}, f.err
}

func TestExpander(t *testing.T) {
	ctx := context.Background()
	m := iometrics.New()
	mdl := model.New("test")

	exp := m.Expander(fakeEngine{})
	res, err := exp.Expand(ctx, mdl)
	require.Nil(t, err)
	assert.Equal(t, "net", res)
	_, _ = exp.Expand(ctx, mdl)

	failErr := errors.New("boom")
	_, err = m.Expander(fakeEngine{err: failErr}).Expand(ctx, mdl)
	assert.ErrorIs(t, err, failErr)

	sim := m.Simulator(fakeEngine{})
	_, err = sim.Simulate(ctx, mdl, bngl.SSAOptions{})
	require.Nil(t, err)

	reg := m.Registry()
	count, err := testutil.GatherAndCount(reg, "rbmnet_engine_runs_total")
	require.Nil(t, err)
	assert.Equal(t, 3, count)

	expected := `
# HELP rbmnet_engine_runs_total Number of BioNetGen runs by operation and status.
# TYPE rbmnet_engine_runs_total counter
rbmnet_engine_runs_total{operation="expand",status="error"} 1
rbmnet_engine_runs_total{operation="expand",status="ok"} 2
rbmnet_engine_runs_total{operation="simulate",status="ok"} 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"rbmnet_engine_runs_total")
	assert.Nil(t, err)
}

func TestObserveNetwork(t *testing.T) {
	m := iometrics.New()
	// not generated models are ignored
	m.ObserveNetwork(model.New("empty"))
	count, err := testutil.GatherAndCount(m.Registry(), "rbmnet_network_species")
	require.Nil(t, err)
	assert.Equal(t, 1, count)

	expected := `
# HELP rbmnet_network_species Number of species in generated networks.
# TYPE rbmnet_network_species histogram
rbmnet_network_species_bucket{le="1"} 0
rbmnet_network_species_bucket{le="4"} 0
rbmnet_network_species_bucket{le="16"} 0
rbmnet_network_species_bucket{le="64"} 0
rbmnet_network_species_bucket{le="256"} 0
rbmnet_network_species_bucket{le="1024"} 0
rbmnet_network_species_bucket{le="4096"} 0
rbmnet_network_species_bucket{le="16384"} 0
rbmnet_network_species_bucket{le="+Inf"} 0
rbmnet_network_species_sum 0
rbmnet_network_species_count 0
`
	err = testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"rbmnet_network_species")
	assert.Nil(t, err)
}

func TestWriteFile(t *testing.T) {
	m := iometrics.New()
	m.Expander(fakeEngine{}).Expand(context.Background(), model.New("x"))

	path := filepath.Join(t.TempDir(), "rbmnet.prom")
	require.Nil(t, m.WriteFile(path))
	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Contains(t, string(data),
		`rbmnet_engine_runs_total{operation="expand",status="ok"} 1`)

	err = m.WriteFile(filepath.Join(t.TempDir(), "missing", "rbmnet.prom"))
	require.NotNil(t, err)
	assert.True(t, model.HasCode(err, errcode.MetricsWriteError))
}
