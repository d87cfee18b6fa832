package pgcrud

import (
	"context"

	"github.com/pgcrud/postgres-crud-mcp/internal/sqlbuild"
)

const serverInfoSQL = `
SELECT
    version() AS version,
    current_database() AS database,
    pg_size_pretty(pg_database_size(current_database())) AS database_size
`

// ServerName identifies this server in get_server_info responses and the
// MCP handshake.
const ServerName = "PostgreSQL CRUD MCP Server"

// ServerInfo reports connection diagnostics. A database failure is reported
// inside the output with status "error" rather than as a Go error, so the
// tool stays usable for troubleshooting a broken connection.
func (s *Server) ServerInfo(ctx context.Context) *ServerInfoOutput {
	output := &ServerInfoOutput{
		ServerName: ServerName,
		Database:   s.config.Connection.DBName,
		Host:       s.config.Connection.Host,
		Port:       s.config.Connection.Port,
	}

	ictx, cancel := s.introspectionContext(ctx)
	defer cancel()

	record, err := s.queryRow(ictx, sqlbuild.Statement{Text: serverInfoSQL})
	if err != nil || record == nil {
		output.Status = "error"
		if err != nil {
			output.Error = err.Error()
		}
		return output
	}

	if v, ok := record["version"].(string); ok {
		output.Version = v
	}
	if db, ok := record["database"].(string); ok && db != "" {
		output.Database = db
	}
	if size, ok := record["database_size"].(string); ok {
		output.DatabaseSize = size
	}
	output.Status = "connected"
	return output
}
