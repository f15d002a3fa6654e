package dto

// SystemStatusDTO summarizes component reachability.
type SystemStatusDTO struct {
	PostgresOnline  bool `json:"postgres_online"`
	KnowledgeOnline bool `json:"knowledge_online"`
}

// PostgresStatusDTO carries the detailed database probe result.
type PostgresStatusDTO struct {
	IsConnected            bool           `json:"is_connected"`
	Version                *string        `json:"version"`
	Uptime                 *string        `json:"uptime"`
	CurrentConnections     *int           `json:"current_connections"`
	ActiveConnections      *int           `json:"active_connections"`
	MaxConnections         *int           `json:"max_connections"`
	ConnectionUsagePercent *float64       `json:"connection_usage_percent"`
	DatabaseSize           *string        `json:"database_size"`
	TablesCount            *int           `json:"tables_count"`
	ErrorMessage           *string        `json:"error_message"`
	DetailedStats          map[string]any `json:"detailed_stats"`
}
