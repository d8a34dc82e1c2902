// Package netfile reads the network produced by the rule expander: the
// species, reactions and groups sections of a `.net` file. It also reads
// the whitespace-delimited tables written by simulation runs.
package netfile

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/gnames/rbmnet/pkg/expr"
	"github.com/gnames/rbmnet/pkg/model"
)

// Network is the parsed content of a network file. All indices are
// 0-based.
type Network struct {
	// Species are concrete complexes in index order.
	Species []*model.ComplexPattern
	// Amounts are the initial populations of species as written by the
	// engine (a number or a parameter name).
	Amounts []expr.Expr
	// Reactions are directed reactions in file order.
	Reactions []RawReaction
	// Groups are observable assignments.
	Groups []Group
}

// RawReaction is one line of the reactions section.
type RawReaction struct {
	Reactants []int
	Products  []int
	// Factors are the rate factors joined by `*` in the file.
	Factors []expr.Expr
	Rule    string
	// Reverse marks a line produced by the reverse direction of a
	// reversible rule.
	Reverse bool
}

// Group is one line of the groups section.
type Group struct {
	Name         string
	Coefficients []int
	Species      []int
}

type section int

const (
	sectSpecies section = iota
	sectReactions
	sectGroups
	sectDone
)

var sectionNames = []string{"species", "reactions", "groups"}

const maxLine = 16 * 1024 * 1024

// Parse reads a network file. Monomer and compartment names of species are
// resolved against the model.
//
// Lines outside the species, reactions and groups sections are skipped.
// The stream may end after the reactions section or after the groups
// section; ending anywhere else is an error.
func Parse(r io.Reader, m *model.Model) (*Network, error) {
	p := &parser{m: m, res: &Network{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	sect := sectSpecies
	inside := false
	for sc.Scan() {
		p.lineNum++
		p.line = sc.Text()
		text := strings.TrimSpace(p.line)
		name := sectionNames[sect]

		if !inside {
			switch text {
			case "begin " + name:
				inside = true
			case "end " + name:
				return nil, p.error("end of "+name+" section before its beginning", nil)
			}
			continue
		}

		switch {
		case text == "end "+name:
			inside = false
			sect++
		case strings.HasPrefix(text, "begin "), strings.HasPrefix(text, "end "):
			return nil, p.error("unexpected marker inside "+name+" section", nil)
		case text == "", strings.HasPrefix(text, "#"):
		default:
			if err := p.parseLine(sect, text); err != nil {
				return nil, err
			}
		}
		if sect == sectDone {
			return p.res, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, NetworkParseError(0, "", "cannot read network", err)
	}

	switch {
	case inside:
		return nil, NetworkParseError(0, "",
			"section "+sectionNames[sect]+" has no end marker", nil)
	case sect < sectGroups:
		return nil, NetworkParseError(0, "",
			"stream ended before section "+sectionNames[sect], nil)
	}
	return p.res, nil
}

type parser struct {
	m       *model.Model
	res     *Network
	lineNum int
	line    string
}

func (p *parser) error(reason string, cause error) error {
	return NetworkParseError(p.lineNum, p.line, reason, cause)
}

func (p *parser) parseLine(sect section, text string) error {
	switch sect {
	case sectSpecies:
		return p.parseSpecies(text)
	case sectReactions:
		return p.parseReaction(text)
	default:
		return p.parseGroup(text)
	}
}

// parseIndex converts a 1-based wire index into a 0-based one.
func (p *parser) parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, p.error("index "+s+" is not an integer", err)
	}
	if i < 1 {
		return 0, p.error("index "+s+" is not positive", nil)
	}
	return i - 1, nil
}

// parseSpeciesList parses a comma separated list of species indices. The
// single token `0` denotes an empty list.
func (p *parser) parseSpeciesList(s string) ([]int, error) {
	if s == "0" {
		return []int{}, nil
	}
	fields := strings.Split(s, ",")
	res := make([]int, len(fields))
	for i, f := range fields {
		idx, err := p.speciesRef(f)
		if err != nil {
			return nil, err
		}
		res[i] = idx
	}
	return res, nil
}

func (p *parser) speciesRef(s string) (int, error) {
	idx, err := p.parseIndex(s)
	if err != nil {
		return 0, err
	}
	if idx >= len(p.res.Species) {
		return 0, p.error("species "+s+" is not defined", nil)
	}
	return idx, nil
}

func (p *parser) parseReaction(text string) error {
	fields := strings.Fields(text)
	if len(fields) < 5 {
		return p.error("reaction line needs index, reactants, products, rate and rule", nil)
	}
	idx, err := p.parseIndex(fields[0])
	if err != nil {
		return err
	}
	if idx != len(p.res.Reactions) {
		return p.error("reaction index "+fields[0]+" is out of sequence", nil)
	}

	var rr RawReaction
	if rr.Reactants, err = p.parseSpeciesList(fields[1]); err != nil {
		return err
	}
	if rr.Products, err = p.parseSpeciesList(fields[2]); err != nil {
		return err
	}
	for _, f := range strings.Split(fields[3], "*") {
		if f == "" {
			return p.error("empty rate factor in "+fields[3], nil)
		}
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			rr.Factors = append(rr.Factors, expr.N(v))
			continue
		}
		rr.Factors = append(rr.Factors, expr.S(f))
	}

	tag := fields[4]
	if !strings.HasPrefix(tag, "#") {
		return p.error("rule tag "+tag+" does not start with #", nil)
	}
	tag = tag[1:]
	if base, ok := strings.CutSuffix(tag, "(reverse)"); ok {
		tag = base
		rr.Reverse = true
	}
	if !isWord(tag) {
		return p.error("bad rule name "+tag, nil)
	}
	rr.Rule = tag
	p.res.Reactions = append(p.res.Reactions, rr)
	return nil
}

func (p *parser) parseGroup(text string) error {
	fields := strings.Fields(text)
	if len(fields) < 2 || len(fields) > 3 {
		return p.error("group line needs index, name and an optional term list", nil)
	}
	if _, err := p.parseIndex(fields[0]); err != nil {
		return err
	}
	g := Group{Name: fields[1], Coefficients: []int{}, Species: []int{}}
	if len(fields) == 3 {
		for _, term := range strings.Split(fields[2], ",") {
			coef, sp := "1", term
			if c, s, ok := strings.Cut(term, "*"); ok {
				coef, sp = c, s
			}
			c, err := strconv.Atoi(coef)
			if err != nil {
				return p.error("coefficient "+coef+" is not an integer", err)
			}
			idx, err := p.speciesRef(sp)
			if err != nil {
				return err
			}
			g.Coefficients = append(g.Coefficients, c)
			g.Species = append(g.Species, idx)
		}
	}
	p.res.Groups = append(p.res.Groups, g)
	return nil
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
