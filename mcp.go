package pgcrud

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the full tool surface — ping, get_server_info,
// list_tables, describe_table, insert_record, select_records,
// update_records, delete_records, execute_custom_query, and
// get_table_statistics — on the given MCP server.
func RegisterMCPTools(mcpServer *server.MCPServer, s *Server) {
	mcpServer.AddTool(mcp.NewTool("ping",
		mcp.WithDescription("Health check for the MCP server."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.loggedToolHandler("ping", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("pong"), nil
	}))

	mcpServer.AddTool(mcp.NewTool("get_server_info",
		mcp.WithDescription("Get information about the MCP server and database connection."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.loggedToolHandler("get_server_info", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonToolResult(s.ServerInfo(ctx))
	}))

	mcpServer.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List all tables in the specified schema with their metadata."),
		mcp.WithString("schema", mcp.Description("Database schema name (defaults to 'public')")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.loggedToolHandler("list_tables", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input ListTablesInput
		if err := decodeArgs(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tables, err := s.ListTables(ctx, input)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonToolResult(tables)
	}))

	mcpServer.AddTool(mcp.NewTool("describe_table",
		mcp.WithDescription("Get detailed information about a table including columns, constraints, and indexes."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table to describe")),
		mcp.WithString("schema", mcp.Description("Database schema name (defaults to 'public')")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.loggedToolHandler("describe_table", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input DescribeTableInput
		if err := decodeArgs(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		output, err := s.DescribeTable(ctx, input)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonToolResult(output)
	}))

	mcpServer.AddTool(mcp.NewTool("insert_record",
		mcp.WithDescription("Insert a new record into the specified table. Values are always bound as parameters."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table to insert into")),
		mcp.WithObject("data", mcp.Required(), mcp.Description("Column names and values to insert")),
		mcp.WithString("schema", mcp.Description("Database schema name (defaults to 'public')")),
		mcp.WithBoolean("return_record", mcp.Description("Whether to return the inserted record (default true)")),
	), s.loggedToolHandler("insert_record", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input InsertRecordInput
		if err := decodeArgs(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		output, err := s.InsertRecord(ctx, input)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonToolResult(output)
	}))

	mcpServer.AddTool(mcp.NewTool("select_records",
		mcp.WithDescription("Select records with filtering, ordering, and pagination. The where_clause and order_by fragments are trusted raw SQL; where_params bind the $1..$n placeholders."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table to select from")),
		mcp.WithString("schema", mcp.Description("Database schema name (defaults to 'public')")),
		mcp.WithArray("columns", mcp.Description("Column names to select (default all columns)")),
		mcp.WithString("where_clause", mcp.Description("WHERE clause without the 'WHERE' keyword, e.g. 'id = $1 AND name LIKE $2'")),
		mcp.WithArray("where_params", mcp.Description("Parameters bound to the WHERE clause placeholders")),
		mcp.WithString("order_by", mcp.Description("ORDER BY clause without the 'ORDER BY' keyword, e.g. 'name ASC, id DESC'")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of records to return")),
		mcp.WithNumber("offset", mcp.Description("Number of records to skip")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.loggedToolHandler("select_records", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input SelectRecordsInput
		if err := decodeArgs(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		output, err := s.SelectRecords(ctx, input)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonToolResult(output)
	}))

	mcpServer.AddTool(mcp.NewTool("update_records",
		mcp.WithDescription("Update records matching the mandatory WHERE clause. Unscoped updates are rejected."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table to update")),
		mcp.WithObject("data", mcp.Required(), mcp.Description("Column names and new values")),
		mcp.WithString("where_clause", mcp.Required(), mcp.Description("WHERE clause without the 'WHERE' keyword (required for safety)")),
		mcp.WithArray("where_params", mcp.Description("Parameters bound to the WHERE clause placeholders")),
		mcp.WithString("schema", mcp.Description("Database schema name (defaults to 'public')")),
		mcp.WithBoolean("return_records", mcp.Description("Whether to return the updated records (default true)")),
	), s.loggedToolHandler("update_records", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input UpdateRecordsInput
		if err := decodeArgs(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		output, err := s.UpdateRecords(ctx, input)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonToolResult(output)
	}))

	mcpServer.AddTool(mcp.NewTool("delete_records",
		mcp.WithDescription("Delete records matching the mandatory WHERE clause. Unscoped deletes are rejected."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table to delete from")),
		mcp.WithString("where_clause", mcp.Required(), mcp.Description("WHERE clause without the 'WHERE' keyword (required for safety)")),
		mcp.WithArray("where_params", mcp.Description("Parameters bound to the WHERE clause placeholders")),
		mcp.WithString("schema", mcp.Description("Database schema name (defaults to 'public')")),
		mcp.WithBoolean("return_records", mcp.Description("Whether to return the deleted records (default false)")),
	), s.loggedToolHandler("delete_records", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input DeleteRecordsInput
		if err := decodeArgs(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		output, err := s.DeleteRecords(ctx, input)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonToolResult(output)
	}))

	mcpServer.AddTool(mcp.NewTool("execute_custom_query",
		mcp.WithDescription("Execute a custom SQL query with bound parameters. query_type 'SELECT' requires the text to start with SELECT."),
		mcp.WithString("query", mcp.Required(), mcp.Description("SQL query to execute")),
		mcp.WithArray("params", mcp.Description("Parameters bound to the query placeholders")),
		mcp.WithString("query_type", mcp.Description("Query type (SELECT, INSERT, UPDATE, DELETE); defaults to SELECT")),
	), s.loggedToolHandler("execute_custom_query", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input CustomQueryInput
		if err := decodeArgs(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		output, err := s.ExecuteCustomQuery(ctx, input)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonToolResult(output)
	}))

	mcpServer.AddTool(mcp.NewTool("get_table_statistics",
		mcp.WithDescription("Get statistics about a table including row count and relation sizes."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table to analyze")),
		mcp.WithString("schema", mcp.Description("Database schema name (defaults to 'public')")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.loggedToolHandler("get_table_statistics", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input TableStatisticsInput
		if err := decodeArgs(req, &input); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		output, err := s.TableStatistics(ctx, input)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonToolResult(output)
	}))
}

// decodeArgs binds the request arguments onto a typed input struct. The
// round-trip decodes with UseNumber so numeric parameters can be rebound as
// integers when they have no fractional part; JSON alone would hand every id
// to the driver as a float.
func decodeArgs(req mcp.CallToolRequest, out any) error {
	data, err := json.Marshal(req.GetArguments())
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	normalizeInput(out)
	return nil
}

// normalizeInput rewrites json.Number values inside the bindable fields of
// an input struct into int64 or float64.
func normalizeInput(out any) {
	switch in := out.(type) {
	case *InsertRecordInput:
		in.Data = normalizeMap(in.Data)
	case *SelectRecordsInput:
		in.WhereParams = normalizeSlice(in.WhereParams)
	case *UpdateRecordsInput:
		in.Data = normalizeMap(in.Data)
		in.WhereParams = normalizeSlice(in.WhereParams)
	case *DeleteRecordsInput:
		in.WhereParams = normalizeSlice(in.WhereParams)
	case *CustomQueryInput:
		in.Params = normalizeSlice(in.Params)
	}
}

func normalizeMap(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeBindValue(v)
	}
	return m
}

func normalizeSlice(s []any) []any {
	for i, v := range s {
		s[i] = normalizeBindValue(v)
	}
	return s
}

func normalizeBindValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		return normalizeMap(val)
	case []any:
		return normalizeSlice(val)
	default:
		return v
	}
}

func jsonToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("failed to marshal tool result"), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// loggedToolHandler wraps a tool handler to log request and response sizes.
func (s *Server) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := handler(ctx, req)
		s.logger.Info().
			Str("tool", tool).
			Int("request_bytes", requestLength(req)).
			Int("response_bytes", resultLength(result)).
			Msg("tool call")
		return result, err
	}
}

func requestLength(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	data, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(data)
}

func resultLength(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			total += len(tc.Text)
		}
	}
	return total
}
