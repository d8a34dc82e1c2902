package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

var errNotGenerated = errors.New("network is not generated")

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS networks (
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL UNIQUE,
		species INTEGER NOT NULL,
		reactions INTEGER NOT NULL,
		reactions_bidirectional INTEGER NOT NULL,
		conserved INTEGER NOT NULL,
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS species (
		network_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		species_id TEXT NOT NULL,
		canonical TEXT NOT NULL,
		ode TEXT,
		PRIMARY KEY (network_id, idx)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_species_species_id ON species (species_id)`,
	`CREATE TABLE IF NOT EXISTS reactions (
		network_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		reactants TEXT,
		products TEXT,
		rate TEXT NOT NULL,
		rule TEXT,
		reverse INTEGER NOT NULL,
		PRIMARY KEY (network_id, idx)
	)`,
}

// SQLite keeps networks in a local SQLite file.
type SQLite struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var _ rbmnet.Store = (*SQLite)(nil)

// NewSQLite opens the store file, creating it together with its parent
// directory and tables when needed.
func NewSQLite(path string) (*SQLite, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil && !errors.Is(err, os.ErrExist) {
		return nil, StoreOpenError(path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, StoreOpenError(path, err)
	}
	for _, q := range sqliteSchema {
		if _, err = db.Exec(q); err != nil {
			_ = db.Close()
			return nil, StoreOpenError(path, err)
		}
	}
	return &SQLite{db: db, path: path}, nil
}

// Path returns the file of the store.
func (s *SQLite) Path() string {
	return s.path
}

// Save writes the network of the model in one transaction, replacing the
// network saved under the same name.
func (s *SQLite) Save(ctx context.Context, m *model.Model) (retErr error) {
	if !m.Generated() {
		return StoreWriteError(m.Name, errNotGenerated)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := newRecords(m)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StoreWriteError(m.Name, err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	id := recs.network.ID
	for _, tbl := range []string{"species", "reactions"} {
		q := fmt.Sprintf("DELETE FROM %s WHERE network_id = ?", tbl)
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return StoreWriteError(m.Name, err)
		}
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM networks WHERE id = ?", id); err != nil {
		return StoreWriteError(m.Name, err)
	}

	n := recs.network
	_, err = tx.ExecContext(ctx, `INSERT INTO networks
		(id, model, species, reactions, reactions_bidirectional, conserved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Model, n.Species, n.Reactions, n.ReactionsBidirectional,
		n.Conserved, n.CreatedAt,
	)
	if err != nil {
		return StoreWriteError(m.Name, err)
	}

	if err = insertSpecies(ctx, tx, recs.species); err != nil {
		return StoreWriteError(m.Name, err)
	}
	if err = insertReactions(ctx, tx, recs.reactions); err != nil {
		return StoreWriteError(m.Name, err)
	}

	if err = tx.Commit(); err != nil {
		return StoreWriteError(m.Name, err)
	}
	slog.Info("Saved network", "model", m.Name, "store", s.path,
		"species", n.Species, "reactions", n.Reactions)
	return nil
}

func insertSpecies(ctx context.Context, tx *sql.Tx, recs []SpeciesRecord) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO species
		(network_id, idx, species_id, canonical, ode) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range recs {
		_, err = stmt.ExecContext(ctx, r.NetworkID, r.Idx, r.SpeciesID,
			r.Canonical, r.ODE)
		if err != nil {
			return err
		}
	}
	return nil
}

func insertReactions(ctx context.Context, tx *sql.Tx, recs []ReactionRecord) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO reactions
		(network_id, idx, reactants, products, rate, rule, reverse)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range recs {
		_, err = stmt.ExecContext(ctx, r.NetworkID, r.Idx, r.Reactants,
			r.Products, r.Rate, r.Rule, r.Reverse)
		if err != nil {
			return err
		}
	}
	return nil
}

// List returns summaries of all saved networks ordered by model name.
func (s *SQLite) List(ctx context.Context) ([]rbmnet.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		model, species, reactions, reactions_bidirectional, conserved
		FROM networks ORDER BY model`)
	if err != nil {
		return nil, StoreReadError(err)
	}
	defer func() { _ = rows.Close() }()

	var res []rbmnet.Summary
	for rows.Next() {
		var r NetworkRecord
		err = rows.Scan(&r.Model, &r.Species, &r.Reactions,
			&r.ReactionsBidirectional, &r.Conserved)
		if err != nil {
			return nil, StoreReadError(err)
		}
		res = append(res, r.summary())
	}
	if err = rows.Err(); err != nil {
		return nil, StoreReadError(err)
	}
	return res, nil
}

// Species returns the species saved for a model in index order. The
// result is empty when there is no such network.
func (s *SQLite) Species(ctx context.Context, modelName string) ([]SpeciesRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		network_id, idx, species_id, canonical, ode
		FROM species WHERE network_id = ? ORDER BY idx`, NetworkID(modelName))
	if err != nil {
		return nil, StoreReadError(err)
	}
	defer func() { _ = rows.Close() }()

	var res []SpeciesRecord
	for rows.Next() {
		var r SpeciesRecord
		var ode sql.NullString
		err = rows.Scan(&r.NetworkID, &r.Idx, &r.SpeciesID, &r.Canonical, &ode)
		if err != nil {
			return nil, StoreReadError(err)
		}
		r.ODE = ode.String
		res = append(res, r)
	}
	if err = rows.Err(); err != nil {
		return nil, StoreReadError(err)
	}
	return res, nil
}

// Close closes the database file.
func (s *SQLite) Close() error {
	return s.db.Close()
}
