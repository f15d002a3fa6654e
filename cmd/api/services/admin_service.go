package services

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/the-beginners-2025/backend-go/cmd/api/clients/ragclient"
	"github.com/the-beginners-2025/backend-go/cmd/api/dto"
	"github.com/the-beginners-2025/backend-go/logger"
)

// AdminService probes the health of the database and the knowledge
// engine for the admin dashboard.
type AdminService struct {
	db               *sql.DB
	rag              *ragclient.Client
	ragAuthorization string
}

func NewAdminService(db *sql.DB, rag *ragclient.Client, ragAuthorization string) *AdminService {
	return &AdminService{db: db, rag: rag, ragAuthorization: ragAuthorization}
}

// Status runs cheap reachability probes against both dependencies.
// Probe failures are reported in the result, never as an error.
func (s *AdminService) Status(ctx context.Context) dto.SystemStatusDTO {
	result := dto.SystemStatusDTO{}

	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err == nil {
		result.PostgresOnline = true
	}

	if status, err := s.rag.GetSystemStatus(ctx, s.ragAuthorization); err == nil && status != nil {
		result.KnowledgeOnline = true
	} else if err != nil {
		logger.DebugWithFields("knowledge engine status probe failed", logger.Fields{
			"error": err.Error(),
		})
	}
	return result
}

// KnowledgeStatus proxies the engine's component status verbatim.
func (s *AdminService) KnowledgeStatus(ctx context.Context) (json.RawMessage, error) {
	return s.rag.GetSystemStatus(ctx, s.ragAuthorization)
}

// PostgresStatus collects version, uptime, connection usage, size and
// per-table statistics from the database's own catalogs.
func (s *AdminService) PostgresStatus(ctx context.Context) (dto.PostgresStatusDTO, error) {
	status := dto.PostgresStatusDTO{}

	var version string
	if err := s.db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return status, err
	}
	status.IsConnected = true
	status.Version = &version

	var uptime string
	if err := s.db.QueryRowContext(ctx,
		`SELECT date_trunc('second', current_timestamp - pg_postmaster_start_time())::text`).
		Scan(&uptime); err == nil {
		status.Uptime = &uptime
	}

	var current, active, max int
	err := s.db.QueryRowContext(ctx, `
		SELECT
		    count(*) AS total_connections,
		    sum(CASE WHEN state = 'active' THEN 1 ELSE 0 END) AS active_connections,
		    (SELECT setting::int FROM pg_settings WHERE name = 'max_connections') AS max_connections
		FROM pg_stat_activity`).Scan(&current, &active, &max)
	if err == nil {
		status.CurrentConnections = &current
		status.ActiveConnections = &active
		status.MaxConnections = &max
		if max > 0 {
			usage := float64(current) / float64(max) * 100
			status.ConnectionUsagePercent = &usage
		}
	}

	var size string
	if err := s.db.QueryRowContext(ctx,
		`SELECT pg_size_pretty(pg_database_size(current_database()))`).Scan(&size); err == nil {
		status.DatabaseSize = &size
	}

	var tables int
	if err := s.db.QueryRowContext(ctx, `
		SELECT count(*) FROM information_schema.tables
		WHERE table_schema NOT IN ('pg_catalog', 'information_schema')`).Scan(&tables); err == nil {
		status.TablesCount = &tables
	}

	topTables, err := s.topTables(ctx)
	if err == nil {
		status.DetailedStats = map[string]any{"top_tables": topTables}
	}

	return status, nil
}

func (s *AdminService) topTables(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
		    schemaname, relname,
		    seq_scan, seq_tup_read,
		    COALESCE(idx_scan, 0), COALESCE(idx_tup_fetch, 0),
		    n_tup_ins, n_tup_upd, n_tup_del,
		    n_live_tup, n_dead_tup
		FROM pg_stat_user_tables
		ORDER BY n_live_tup DESC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []map[string]any
	for rows.Next() {
		var schema, rel string
		var seqScan, seqTupRead, idxScan, idxTupFetch, ins, upd, del, live, dead int64
		if err := rows.Scan(&schema, &rel, &seqScan, &seqTupRead, &idxScan, &idxTupFetch,
			&ins, &upd, &del, &live, &dead); err != nil {
			return nil, err
		}
		result = append(result, map[string]any{
			"schemaname":    schema,
			"relname":       rel,
			"seq_scan":      seqScan,
			"seq_tup_read":  seqTupRead,
			"idx_scan":      idxScan,
			"idx_tup_fetch": idxTupFetch,
			"n_tup_ins":     ins,
			"n_tup_upd":     upd,
			"n_tup_del":     del,
			"n_live_tup":    live,
			"n_dead_tup":    dead,
		})
	}
	return result, rows.Err()
}
