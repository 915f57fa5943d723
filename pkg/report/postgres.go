package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-conductance/pkg/sweep"
)

// Execer runs a statement. pgx connections, pools and transactions all
// satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSink stores sweep results in three tables: sweep_runs,
// sweep_points and sweep_communities.
type PostgresSink struct {
	db   Execer
	pool *pgxpool.Pool
}

// NewPostgresSink connects to databaseURL
func NewPostgresSink(ctx context.Context, databaseURL string) (*PostgresSink, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return &PostgresSink{db: pool, pool: pool}, nil
}

// NewPostgresSinkWithExecer writes through db without managing transactions
func NewPostgresSinkWithExecer(db Execer) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS sweep_runs (
	run_id TEXT PRIMARY KEY,
	attribute TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sweep_points (
	run_id TEXT NOT NULL REFERENCES sweep_runs(run_id),
	param DOUBLE PRECISION NOT NULL,
	path TEXT NOT NULL,
	nodes INTEGER NOT NULL,
	edges INTEGER NOT NULL,
	mean DOUBLE PRECISION NOT NULL,
	std_dev DOUBLE PRECISION NOT NULL,
	modularity DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, param)
);

CREATE TABLE IF NOT EXISTS sweep_communities (
	run_id TEXT NOT NULL,
	param DOUBLE PRECISION NOT NULL,
	position INTEGER NOT NULL,
	label TEXT NOT NULL,
	size INTEGER NOT NULL,
	conductance DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, param, position),
	FOREIGN KEY (run_id, param) REFERENCES sweep_points(run_id, param)
);
`

// Save creates the tables if needed and inserts res. With a pool the whole
// result is written in one transaction.
func (s *PostgresSink) Save(ctx context.Context, res *sweep.Result) error {
	if s.pool == nil {
		return save(ctx, s.db, res)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return save(ctx, tx, res)
	})
}

func save(ctx context.Context, db Execer, res *sweep.Result) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO sweep_runs (run_id, attribute, created_at) VALUES ($1, $2, $3)`,
		res.RunID, res.Attribute, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", res.RunID, err)
	}

	for _, p := range res.Points {
		if _, err := db.Exec(ctx,
			`INSERT INTO sweep_points (run_id, param, path, nodes, edges, mean, std_dev, modularity)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			res.RunID, p.Param, p.Path, p.Nodes, p.Edges, p.Mean, p.StdDev, p.Modularity,
		); err != nil {
			return fmt.Errorf("insert point %s: %w", formatFloat(p.Param), err)
		}
		for i, c := range p.Communities {
			if _, err := db.Exec(ctx,
				`INSERT INTO sweep_communities (run_id, param, position, label, size, conductance)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				res.RunID, p.Param, i, c.Label, c.Size, c.Conductance,
			); err != nil {
				return fmt.Errorf("insert community %d of point %s: %w", i, formatFloat(p.Param), err)
			}
		}
	}
	return nil
}
