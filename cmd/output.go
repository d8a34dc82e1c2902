package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/rbmnet/internal/iofs"
	"github.com/gnames/rbmnet/internal/iometrics"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/netfile"
	"github.com/gnames/rbmnet/pkg/rbmnet"
)

// outputWriter returns STDOUT or the configured output file together with
// a function that closes it.
func outputWriter() (io.Writer, func() error, error) {
	if cfg.Output.File == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(cfg.Output.File)
	if err != nil {
		return nil, nil, iofs.WriteFileError(cfg.Output.File, err)
	}
	return f, f.Close, nil
}

// writeOutput renders v in the configured format.
func writeOutput(v any) error {
	w, closeFn, err := outputWriter()
	if err != nil {
		return err
	}
	if err = render(w, v, cfg.Output.Format); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func render(w io.Writer, v any, format string) error {
	if format == "json" {
		enc := gnfmt.GNjson{Pretty: true}
		data, err := enc.Encode(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var txt string
	switch val := v.(type) {
	case []rbmnet.Summary:
		txt = summariesText(val)
	case *netfile.Table:
		txt = tableText(val)
	case []speciesRow:
		txt = speciesText(val)
	default:
		txt = fmt.Sprintf("%v\n", v)
	}
	_, err := io.WriteString(w, txt)
	return err
}

func summariesText(sums []rbmnet.Summary) string {
	var b strings.Builder
	for i, s := range sums {
		if i > 0 {
			b.WriteString("\n")
		}
		conserved := "no"
		if s.Conserved {
			conserved = "yes"
		}
		fmt.Fprintf(&b, "Model:      %s\n", s.Model)
		fmt.Fprintf(&b, "Species:    %s\n", humanize.Comma(int64(s.Species)))
		fmt.Fprintf(&b, "Reactions:  %s (bidirectional: %s)\n",
			humanize.Comma(int64(s.Reactions)),
			humanize.Comma(int64(s.ReactionsBidirectional)))
		fmt.Fprintf(&b, "Conserved:  %s\n", conserved)

		if len(s.SpeciesList) > 0 {
			b.WriteString("\nSpecies:\n")
			for j, sp := range s.SpeciesList {
				fmt.Fprintf(&b, "  %-6s %s\n", model.SpeciesSymbol(j), sp)
			}
		}
		if len(s.ODEs) > 0 {
			b.WriteString("\nODEs:\n")
			for j, ode := range s.ODEs {
				fmt.Fprintf(&b, "  d%s/dt = %s\n", model.SpeciesSymbol(j), ode)
			}
		}
		if len(s.Observables) > 0 {
			b.WriteString("\nObservables:\n")
			for _, k := range slices.Sorted(maps.Keys(s.Observables)) {
				fmt.Fprintf(&b, "  %s = %s\n", k, s.Observables[k])
			}
		}
	}
	return b.String()
}

func tableText(t *netfile.Table) string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, "\t"))
	b.WriteString("\n")
	for _, row := range t.Rows {
		vals := make([]string, len(row))
		for i, v := range row {
			vals[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		b.WriteString(strings.Join(vals, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}

// speciesRow is a saved species shown by 'store show'.
type speciesRow struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Canonical string `json:"canonical"`
	ODE       string `json:"ode,omitempty"`
}

func speciesText(rows []speciesRow) string {
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-6s %s  %s\n", model.SpeciesSymbol(r.Index), r.ID, r.Canonical)
	}
	return b.String()
}

// writeMetrics exports metrics when a metrics file is configured.
func writeMetrics(m *iometrics.Metrics) {
	if cfg.Metrics.File == "" {
		return
	}
	if err := m.WriteFile(cfg.Metrics.File); err != nil {
		gn.PrintErrorMessage(err)
	}
}
