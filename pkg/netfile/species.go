package netfile

import (
	"strings"

	"github.com/gnames/rbmnet/pkg/bngl"
	"github.com/gnames/rbmnet/pkg/expr"
	"github.com/gnames/rbmnet/pkg/model"
)

// parseSpecies reads `<index> [@comp::]Mon(sites)[@comp].Mon(...) <amount>`.
func (p *parser) parseSpecies(text string) error {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return p.error("species line needs index, complex and amount", nil)
	}
	idx, err := p.parseIndex(fields[0])
	if err != nil {
		return err
	}
	if idx != len(p.res.Species) {
		return p.error("species index "+fields[0]+" is out of sequence", nil)
	}

	cp, err := p.parseComplex(fields[1])
	if err != nil {
		return err
	}
	amount, err := expr.Parse(fields[2])
	if err != nil {
		return p.error("bad amount "+fields[2], err)
	}
	p.res.Species = append(p.res.Species, cp)
	p.res.Amounts = append(p.res.Amounts, amount)
	return nil
}

func (p *parser) parseComplex(s string) (*model.ComplexPattern, error) {
	// `$` marks a species with a fixed population.
	cp, err := bngl.ParseComplex(p.m, strings.TrimPrefix(s, "$"))
	if err != nil {
		return nil, p.error("invalid complex "+s, err)
	}
	return cp, nil
}
