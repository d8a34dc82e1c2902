package model

import "fmt"

// SpeciesCache identifies the species index map currently cached by m.
func SpeciesCache(m *Model) string {
	return fmt.Sprintf("%p", m.speciesIdx)
}
