package pgcrud

// Record is one result row as a field→value map. Values have already been
// through normalization, so every entry is JSON-compatible.
type Record = map[string]any

// InsertRecordInput is the input for the insert_record tool.
// ReturnRecord defaults to true when absent.
type InsertRecordInput struct {
	TableName    string         `json:"table_name"`
	Data         map[string]any `json:"data"`
	Schema       string         `json:"schema,omitempty"`
	ReturnRecord *bool          `json:"return_record,omitempty"`
}

// InsertRecordOutput is either {success, record} or {success, rows_affected}
// depending on ReturnRecord.
type InsertRecordOutput struct {
	Success      bool   `json:"success"`
	Record       Record `json:"record,omitempty"`
	RowsAffected *int64 `json:"rows_affected,omitempty"`
}

// SelectRecordsInput is the input for the select_records tool. WhereClause
// and OrderBy are raw SQL fragments, trusted verbatim; WhereParams bind the
// $1..$n placeholders the clause references.
type SelectRecordsInput struct {
	TableName   string   `json:"table_name"`
	Schema      string   `json:"schema,omitempty"`
	Columns     []string `json:"columns,omitempty"`
	WhereClause string   `json:"where_clause,omitempty"`
	WhereParams []any    `json:"where_params,omitempty"`
	OrderBy     string   `json:"order_by,omitempty"`
	Limit       *int     `json:"limit,omitempty"`
	Offset      *int     `json:"offset,omitempty"`
}

// SelectRecordsOutput carries the page of records plus pagination metadata.
// TotalCount reflects the predicate only, independent of limit/offset.
type SelectRecordsOutput struct {
	Records       []Record `json:"records"`
	TotalCount    int64    `json:"total_count"`
	ReturnedCount int      `json:"returned_count"`
	Limit         *int     `json:"limit"`
	Offset        int      `json:"offset"`
}

// UpdateRecordsInput is the input for the update_records tool. WhereClause is
// mandatory. ReturnRecords defaults to true when absent.
type UpdateRecordsInput struct {
	TableName     string         `json:"table_name"`
	Data          map[string]any `json:"data"`
	WhereClause   string         `json:"where_clause"`
	WhereParams   []any          `json:"where_params,omitempty"`
	Schema        string         `json:"schema,omitempty"`
	ReturnRecords *bool          `json:"return_records,omitempty"`
}

// UpdateRecordsOutput is the result of update_records. Records is present
// only when ReturnRecords was true.
type UpdateRecordsOutput struct {
	Success      bool     `json:"success"`
	Records      []Record `json:"records,omitempty"`
	RowsAffected int64    `json:"rows_affected"`
}

// DeleteRecordsInput is the input for the delete_records tool. WhereClause is
// mandatory. ReturnRecords defaults to false.
type DeleteRecordsInput struct {
	TableName     string `json:"table_name"`
	WhereClause   string `json:"where_clause"`
	WhereParams   []any  `json:"where_params,omitempty"`
	Schema        string `json:"schema,omitempty"`
	ReturnRecords bool   `json:"return_records,omitempty"`
}

// DeleteRecordsOutput is the result of delete_records.
type DeleteRecordsOutput struct {
	Success      bool     `json:"success"`
	Records      []Record `json:"records,omitempty"`
	RowsAffected int64    `json:"rows_affected"`
}

// CustomQueryInput is the input for the execute_custom_query tool. QueryType
// defaults to SELECT; a SELECT-typed query must textually start with SELECT.
type CustomQueryInput struct {
	Query     string `json:"query"`
	Params    []any  `json:"params,omitempty"`
	QueryType string `json:"query_type,omitempty"`
}

// CustomQueryOutput is the result of execute_custom_query: records plus
// record_count for read queries, command tag plus rows_affected for mutating
// ones.
type CustomQueryOutput struct {
	Success      bool     `json:"success"`
	Records      []Record `json:"records,omitempty"`
	RecordCount  *int     `json:"record_count,omitempty"`
	Result       string   `json:"result,omitempty"`
	RowsAffected *int64   `json:"rows_affected,omitempty"`
}

// ListTablesInput is the input for the list_tables tool.
type ListTablesInput struct {
	Schema string `json:"schema,omitempty"`
}

// DescribeTableInput is the input for the describe_table tool.
type DescribeTableInput struct {
	TableName string `json:"table_name"`
	Schema    string `json:"schema,omitempty"`
}

// DescribeTableOutput is the result of describe_table.
type DescribeTableOutput struct {
	TableName   string   `json:"table_name"`
	Schema      string   `json:"schema"`
	Columns     []Record `json:"columns"`
	Constraints []Record `json:"constraints"`
	Indexes     []Record `json:"indexes"`
}

// TableStatisticsInput is the input for the get_table_statistics tool.
type TableStatisticsInput struct {
	TableName string `json:"table_name"`
	Schema    string `json:"schema,omitempty"`
}

// TableStatisticsOutput is the result of get_table_statistics.
type TableStatisticsOutput struct {
	TableInfo Record `json:"table_info"`
	RowCount  int64  `json:"row_count"`
	SizeInfo  Record `json:"size_info"`
}

// ServerInfoOutput is the result of get_server_info.
type ServerInfoOutput struct {
	ServerName   string `json:"server_name"`
	Database     string `json:"database"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Version      string `json:"version"`
	DatabaseSize string `json:"database_size"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}
