// Package pgcrud exposes a PostgreSQL database to remote callers — typically
// AI agents — through two parallel façades over one core: an MCP tool
// surface (ping, get_server_info, list_tables, describe_table,
// insert_record, select_records, update_records, delete_records,
// execute_custom_query, get_table_statistics) and a minimal JSON-RPC 2.0
// HTTP endpoint with an item-only model.
//
// The core builds parameterized SQL from structured call parameters and
// executes it on a pgx connection pool. Data values always travel through
// the extended query protocol as bound parameters; they are never
// concatenated into statement text. Mutating tools require a WHERE clause —
// there is no "update all rows" escape hatch — and INSERT/UPDATE require a
// non-empty data map.
//
// # Trust boundary
//
// Table and schema names, where_clause, and order_by fragments supplied by
// the caller are interpolated into statement text verbatim. That flexibility
// is the point of the tool surface and it is an injection surface by design:
// deploy this server only where the caller is trusted with the database
// credentials it is using. The only syntactic guard is on custom queries
// declared read-only, which must start with SELECT. Optional AST-based
// protection rules (ProtectionConfig) can additionally block DROP, TRUNCATE,
// DDL, and unscoped DELETE/UPDATE in custom mutating queries.
//
// # Library usage
//
//	s, err := pgcrud.New(ctx, connString, pgcrud.Config{
//		Pool:  pgcrud.PoolConfig{MaxConns: 10},
//		Query: pgcrud.QueryConfig{DefaultTimeoutSeconds: 30},
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close(ctx)
//
//	out, err := s.SelectRecords(ctx, pgcrud.SelectRecordsInput{
//		TableName:   "items",
//		WhereClause: "id = $1",
//		WhereParams: []any{42},
//	})
//
// Errors form a closed taxonomy: *ValidationError (fix the call),
// *NotFoundError (missing table or record), *DatabaseError (backend rejected
// the statement), and *ResourceError (pool exhaustion, timeout, connection
// failure). Nothing is retried; every failure reaches the caller.
package pgcrud
