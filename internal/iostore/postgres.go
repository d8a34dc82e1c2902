package iostore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/rbmnet/pkg/config"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres archives networks in a PostgreSQL database.
type Postgres struct {
	pool      *pgxpool.Pool
	gormDB    *gorm.DB
	batchSize int
}

var _ rbmnet.Store = (*Postgres)(nil)

// DSN builds a connection string from the database settings.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)
}

// NewPostgres connects to the database and creates missing network
// tables.
func NewPostgres(ctx context.Context, cfg config.StoreConfig) (*Postgres, error) {
	db := cfg.Postgres
	poolConfig, err := pgxpool.ParseConfig(DSN(db))
	if err != nil {
		return nil, DBConnectionError(db.Host, db.Port, db.Database, db.User, err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, DBConnectionError(db.Host, db.Port, db.Database, db.User, err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, DBConnectionError(db.Host, db.Port, db.Database, db.User, err)
	}

	res := &Postgres{pool: pool, batchSize: cfg.BatchSize}
	if res.batchSize <= 0 {
		res.batchSize = config.New().Store.BatchSize
	}
	if err = res.migrate(); err != nil {
		pool.Close()
		return nil, err
	}
	return res, nil
}

func (p *Postgres) migrate() error {
	if p.pool == nil {
		return DBNotConnectedError()
	}
	sqlDB := stdlib.OpenDBFromPool(p.pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return SchemaMigrateError(err)
	}
	if err = gormDB.AutoMigrate(AllModels()...); err != nil {
		return SchemaMigrateError(err)
	}
	p.gormDB = gormDB
	return nil
}

// Save replaces the network saved under the model name. Species and
// reactions are inserted in batches of the configured size.
func (p *Postgres) Save(ctx context.Context, m *model.Model) error {
	if !m.Generated() {
		return StoreWriteError(m.Name, errNotGenerated)
	}
	if p.gormDB == nil {
		return DBNotConnectedError()
	}

	recs := newRecords(m)
	id := recs.network.ID
	err := p.gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("network_id = ?", id).Delete(&SpeciesRecord{}).Error
		if err != nil {
			return err
		}
		err = tx.Where("network_id = ?", id).Delete(&ReactionRecord{}).Error
		if err != nil {
			return err
		}
		if err = tx.Where("id = ?", id).Delete(&NetworkRecord{}).Error; err != nil {
			return err
		}
		if err = tx.Create(&recs.network).Error; err != nil {
			return err
		}
		if len(recs.species) > 0 {
			err = tx.CreateInBatches(recs.species, p.batchSize).Error
			if err != nil {
				return err
			}
		}
		if len(recs.reactions) > 0 {
			err = tx.CreateInBatches(recs.reactions, p.batchSize).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return StoreWriteError(m.Name, err)
	}
	slog.Info("Archived network", "model", m.Name,
		"species", recs.network.Species, "reactions", recs.network.Reactions)
	return nil
}

// List returns summaries of archived networks ordered by model name.
func (p *Postgres) List(ctx context.Context) ([]rbmnet.Summary, error) {
	if p.pool == nil {
		return nil, DBNotConnectedError()
	}
	rows, err := p.pool.Query(ctx, `SELECT
		model, species, reactions, reactions_bidirectional, conserved
		FROM networks ORDER BY model`)
	if err != nil {
		return nil, StoreReadError(err)
	}
	defer rows.Close()

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

// Species returns the archived species of a model in index order.
func (p *Postgres) Species(ctx context.Context, modelName string) ([]SpeciesRecord, error) {
	if p.gormDB == nil {
		return nil, DBNotConnectedError()
	}
	var res []SpeciesRecord
	err := p.gormDB.WithContext(ctx).
		Where("network_id = ?", NetworkID(modelName)).
		Order("idx").
		Find(&res).Error
	if err != nil {
		return nil, StoreReadError(err)
	}
	return res, nil
}

// Close releases all database connections.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
