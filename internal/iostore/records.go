// Package iostore persists generated networks. A local SQLite file keeps
// the networks of a workstation, a PostgreSQL database archives networks
// shared by a group. Both implement rbmnet.Store and share one table
// layout.
package iostore

import (
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnuuid"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/rbmnet"
)

// NetworkRecord is a row of the networks table.
type NetworkRecord struct {
	// ID is a UUID v5 of the model name.
	ID                     string `gorm:"type:uuid;primaryKey"`
	Model                  string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Species                int    `gorm:"not null"`
	Reactions              int    `gorm:"not null"`
	ReactionsBidirectional int    `gorm:"not null"`
	Conserved              bool   `gorm:"not null"`
	CreatedAt              time.Time
}

// TableName overrides the table name for NetworkRecord.
func (NetworkRecord) TableName() string { return "networks" }

// SpeciesRecord is a species of a saved network.
type SpeciesRecord struct {
	NetworkID string `gorm:"type:uuid;primaryKey"`
	Idx       int    `gorm:"primaryKey;autoIncrement:false"`
	// SpeciesID is a UUID v5 of the canonical form, the same species
	// gets the same ID in every network.
	SpeciesID string `gorm:"type:uuid;index;not null"`
	Canonical string `gorm:"type:text;not null"`
	ODE       string `gorm:"type:text"`
}

// TableName overrides the table name for SpeciesRecord.
func (SpeciesRecord) TableName() string { return "species" }

// ReactionRecord is a directed reaction of a saved network. Reactants and
// Products keep species indices separated by commas.
type ReactionRecord struct {
	NetworkID string `gorm:"type:uuid;primaryKey"`
	Idx       int    `gorm:"primaryKey;autoIncrement:false"`
	Reactants string `gorm:"type:varchar(255)"`
	Products  string `gorm:"type:varchar(255)"`
	Rate      string `gorm:"type:text;not null"`
	Rule      string `gorm:"type:varchar(255);index"`
	Reverse   bool   `gorm:"not null"`
}

// TableName overrides the table name for ReactionRecord.
func (ReactionRecord) TableName() string { return "reactions" }

// AllModels returns records for gorm AutoMigrate.
func AllModels() []any {
	return []any{
		&NetworkRecord{},
		&SpeciesRecord{},
		&ReactionRecord{},
	}
}

// NetworkID returns the ID of the network saved under a model name.
func NetworkID(modelName string) string {
	return gnuuid.New(modelName).String()
}

type records struct {
	network   NetworkRecord
	species   []SpeciesRecord
	reactions []ReactionRecord
}

func newRecords(m *model.Model) records {
	sum := rbmnet.NewSummary(m, false)
	id := NetworkID(m.Name)
	res := records{
		network: NetworkRecord{
			ID:                     id,
			Model:                  m.Name,
			Species:                sum.Species,
			Reactions:              sum.Reactions,
			ReactionsBidirectional: sum.ReactionsBidirectional,
			Conserved:              sum.Conserved,
			CreatedAt:              time.Now().UTC(),
		},
		species:   make([]SpeciesRecord, len(m.Species)),
		reactions: make([]ReactionRecord, len(m.Reactions)),
	}

	for i, sp := range m.Species {
		can := sp.Canonical()
		res.species[i] = SpeciesRecord{
			NetworkID: id,
			Idx:       i,
			SpeciesID: gnuuid.New(can).String(),
			Canonical: can,
		}
		if i < len(m.ODEs) {
			res.species[i].ODE = m.ODEs[i].String()
		}
	}

	for i, r := range m.Reactions {
		res.reactions[i] = ReactionRecord{
			NetworkID: id,
			Idx:       i,
			Reactants: joinInts(r.Reactants),
			Products:  joinInts(r.Products),
			Rate:      r.Rate.String(),
			Rule:      r.Rule,
			Reverse:   r.Reverse,
		}
	}
	return res
}

func (r NetworkRecord) summary() rbmnet.Summary {
	return rbmnet.Summary{
		Model:                  r.Model,
		Species:                r.Species,
		Reactions:              r.Reactions,
		ReactionsBidirectional: r.ReactionsBidirectional,
		Conserved:              r.Conserved,
	}
}

func joinInts(is []int) string {
	ss := make([]string, len(is))
	for i, v := range is {
		ss[i] = strconv.Itoa(v)
	}
	return strings.Join(ss, ",")
}
