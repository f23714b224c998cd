package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/playpulse/playpulse-backend/config"
	"github.com/playpulse/playpulse-backend/internal/auth"
	projectrepo "github.com/playpulse/playpulse-backend/internal/projects/repository"
	projectservice "github.com/playpulse/playpulse-backend/internal/projects/service"
	"github.com/playpulse/playpulse-backend/internal/storage/memory"
	"github.com/playpulse/playpulse-backend/internal/storage/postgres"
	"github.com/playpulse/playpulse-backend/internal/users"
	versionrepo "github.com/playpulse/playpulse-backend/internal/versions/repository"
	versionservice "github.com/playpulse/playpulse-backend/internal/versions/service"
)

// Stores is the persistence layer the services are built on.
type Stores struct {
	Projects projectservice.Store
	Updates  projectservice.UpdateLog
	Versions versionservice.VersionStore
	Pages    versionservice.PageStore
	Sections versionservice.SectionStore
	Backfill versionservice.BackfillStore
	Users    auth.UserEnsurer

	// Pool is nil for the memory driver.
	Pool *pgxpool.Pool
	sql  *sql.DB
}

// MemoryStores keeps everything in process. Data is lost on restart.
func MemoryStores() *Stores {
	return memoryStores(memory.New())
}

func memoryStores(s *memory.Store) *Stores {
	return &Stores{
		Projects: s.Projects(),
		Updates:  s.Updates(),
		Versions: s.Versions(),
		Pages:    s.Pages(),
		Sections: s.Sections(),
		Backfill: s.Backfill(),
		Users:    s.Users(),
	}
}

// PostgresStores opens both database handles and applies the schema.
func PostgresStores(ctx context.Context, cfg *config.DatabaseConfig) (*Stores, error) {
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	pool, err := OpenDB(ctx, cfg, DBOptions{})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Stores{
		Projects: projectrepo.NewProjectRepository(db),
		Updates:  projectrepo.NewUpdateRepository(db),
		Versions: versionrepo.NewVersionRepository(db),
		Pages:    versionrepo.NewPageRepository(db),
		Sections: versionrepo.NewSectionRepository(db),
		Backfill: versionrepo.NewSlugRepository(pool),
		Users:    users.NewRepo(pool),
		Pool:     pool,
		sql:      db,
	}, nil
}

// OpenStores picks the driver named by APP storage config.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	if cfg.App.Storage == config.StorageMemory {
		return MemoryStores(), nil
	}
	return PostgresStores(ctx, &cfg.Database)
}

func (s *Stores) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.sql != nil {
		_ = s.sql.Close()
	}
}
