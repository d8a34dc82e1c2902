package model

import (
	"cmp"
	"slices"
	"strings"
)

type edge struct {
	site        string
	siteIdx     int
	bond        int
	partner     int
	partnerSite string
}

// Canonical returns a normalized rendering of the complex that does not
// depend on the order of monomers, on bond numbering, or on whether the
// compartment is given for the whole complex or for each monomer. Two
// complexes describe the same bond graph when their canonical forms match.
//
// Each connected component is rendered by a breadth-first walk from every
// possible start monomer, visiting neighbors in site declaration order, and
// the smallest rendering is kept. Bonds of one site that lead to
// indistinguishable partners are tried in every order. Components are sorted.
func (cp *ComplexPattern) Canonical() string {
	adj := cp.adjacency()
	seen := make([]bool, len(cp.Monomers))
	var comps []string
	for i := range cp.Monomers {
		if seen[i] {
			continue
		}
		w := walker{
			cp:      cp,
			adj:     adj,
			visited: make([]bool, len(cp.Monomers)),
			chosen:  make([][]edge, len(cp.Monomers)),
		}
		for _, start := range cp.walk(i, adj) {
			seen[start] = true
			w.order = append(w.order[:0], start)
			w.visited[start] = true
			w.step(0)
			w.visited[start] = false
		}
		comps = append(comps, w.best)
	}
	slices.Sort(comps)
	return strings.Join(comps, ".")
}

// SameSpecies reports whether two complexes have identical canonical forms.
func SameSpecies(a, b *ComplexPattern) bool {
	return a.Canonical() == b.Canonical()
}

func (cp *ComplexPattern) adjacency() [][]edge {
	adj := make([][]edge, len(cp.Monomers))
	for b, ends := range cp.Bonds() {
		if len(ends) != 2 {
			continue
		}
		x, y := ends[0], ends[1]
		adj[x.Monomer] = append(adj[x.Monomer], edge{
			site: x.Site, siteIdx: cp.Monomers[x.Monomer].Monomer.siteIndex(x.Site),
			bond: b, partner: y.Monomer, partnerSite: y.Site,
		})
		adj[y.Monomer] = append(adj[y.Monomer], edge{
			site: y.Site, siteIdx: cp.Monomers[y.Monomer].Monomer.siteIndex(y.Site),
			bond: b, partner: x.Monomer, partnerSite: x.Site,
		})
	}
	for i := range adj {
		slices.SortFunc(adj[i], cp.compareEdges)
	}
	return adj
}

// compareEdges orders edges by own site, partner monomer and partner site.
// Edges comparing equal can only be told apart by the rest of the graph.
func (cp *ComplexPattern) compareEdges(a, b edge) int {
	return cmp.Or(
		cmp.Compare(a.siteIdx, b.siteIdx),
		cmp.Compare(cp.Monomers[a.partner].Monomer.name,
			cp.Monomers[b.partner].Monomer.name),
		cmp.Compare(a.partnerSite, b.partnerSite),
	)
}

// orderings returns every arrangement of sorted edges that permutes only
// runs of equal edges.
func (cp *ComplexPattern) orderings(es []edge) [][]edge {
	res := [][]edge{nil}
	for lo := 0; lo < len(es); {
		hi := lo + 1
		for hi < len(es) && cp.compareEdges(es[lo], es[hi]) == 0 {
			hi++
		}
		var next [][]edge
		for _, prefix := range res {
			for _, p := range permutations(es[lo:hi]) {
				next = append(next, append(slices.Clone(prefix), p...))
			}
		}
		res = next
		lo = hi
	}
	return res
}

func permutations(es []edge) [][]edge {
	if len(es) <= 1 {
		return [][]edge{slices.Clone(es)}
	}
	var res [][]edge
	for i := range es {
		rest := append(slices.Clone(es[:i]), es[i+1:]...)
		for _, p := range permutations(rest) {
			res = append(res, append([]edge{es[i]}, p...))
		}
	}
	return res
}

// walker searches breadth-first visit orders of one component and keeps
// the smallest rendering.
type walker struct {
	cp      *ComplexPattern
	adj     [][]edge
	order   []int
	visited []bool
	// chosen is the edge order used for each visited monomer.
	chosen [][]edge
	best   string
	found  bool
}

// step expands the monomer at position k of the visit order with each
// admissible edge order.
func (w *walker) step(k int) {
	if k == len(w.order) {
		s := w.cp.render(w.order, w.chosen)
		if !w.found || s < w.best {
			w.best, w.found = s, true
		}
		return
	}
	i := w.order[k]
	for _, es := range w.cp.orderings(w.adj[i]) {
		n := len(w.order)
		for _, e := range es {
			if !w.visited[e.partner] {
				w.visited[e.partner] = true
				w.order = append(w.order, e.partner)
			}
		}
		w.chosen[i] = es
		w.step(k + 1)
		for _, j := range w.order[n:] {
			w.visited[j] = false
		}
		w.order = w.order[:n]
	}
}

// walk returns monomer indices of the component of start in visit order.
func (cp *ComplexPattern) walk(start int, adj [][]edge) []int {
	order := []int{start}
	visited := map[int]bool{start: true}
	for k := 0; k < len(order); k++ {
		for _, e := range adj[order[k]] {
			if !visited[e.partner] {
				visited[e.partner] = true
				order = append(order, e.partner)
			}
		}
	}
	return order
}

func (cp *ComplexPattern) render(order []int, adj [][]edge) string {
	renumber := make(map[int]int)
	for _, i := range order {
		for _, e := range adj[i] {
			if _, ok := renumber[e.bond]; !ok {
				renumber[e.bond] = len(renumber) + 1
			}
		}
	}
	parts := make([]string, len(order))
	for k, i := range order {
		mp := cp.Monomers[i]
		comp := mp.Compartment
		if comp == "" {
			comp = cp.Compartment
		}
		parts[k] = mp.format(renumber, comp)
	}
	return strings.Join(parts, ".")
}
