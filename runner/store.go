package runner

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/fieldcrew/statsync/internal/domain"
	"github.com/fieldcrew/statsync/internal/repository/postgres"
	"github.com/fieldcrew/statsync/internal/repository/sqlite"
)

// Store bundles the open database handle with the repository set so the
// run modes do not care which engine backs them
type Store struct {
	DB         *sql.DB
	Postgres   bool
	Mappings   domain.StatusMappingRepository
	Employees  domain.EmployeeRepository
	DailyStats domain.DailyStatRepository
	SyncRuns   domain.SyncRunRepository
	TimeClock  domain.TimeEntryRepository
	Inactivity domain.InactivityRepository
}

// OpenStore opens the database selected by DSN prefix and runs the
// embedded migrations. A postgres:// or postgresql:// DSN selects
// PostgreSQL, anything else is treated as a SQLite file path.
func OpenStore(dsn string) (*Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err := postgres.OpenConnection(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := postgres.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		repos := postgres.NewRepositories(db)

		return &Store{
			DB:         db,
			Postgres:   true,
			Mappings:   repos.Mappings,
			Employees:  repos.Employees,
			DailyStats: repos.DailyStats,
			SyncRuns:   repos.SyncRuns,
			TimeClock:  repos.TimeClock,
			Inactivity: repos.Inactivity,
		}, nil
	}

	if dsn == "" {
		dsn = "statsync.db"
	}

	db, err := sqlite.OpenConnection(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := sqlite.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := sqlite.NewRepositories(db)

	return &Store{
		DB:         db,
		Mappings:   repos.Mappings,
		Employees:  repos.Employees,
		DailyStats: repos.DailyStats,
		SyncRuns:   repos.SyncRuns,
		TimeClock:  repos.TimeClock,
		Inactivity: repos.Inactivity,
	}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
