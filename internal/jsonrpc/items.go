package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"

	pgcrud "github.com/pgcrud/postgres-crud-mcp"
)

// itemsTable is the relation behind the item model.
const itemsTable = "items"

// Item is the JSON shape of one item.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type createItemParams struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type itemIDParams struct {
	ID *int64 `json:"id"`
}

type updateItemParams struct {
	ID          *int64  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type queryItemsParams struct {
	NameFilter *string `json:"name_filter"`
	Limit      *int    `json:"limit"`
	Offset     *int    `json:"offset"`
}

// queryItemsResult is the query_items envelope.
type queryItemsResult struct {
	Items  []Item `json:"items"`
	Total  int64  `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

func (h *Handler) createItem(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p createItemParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.Name == "" {
		return nil, errorf(codeInvalidParams, "name is required")
	}

	data := map[string]any{"name": p.Name}
	if p.Description != nil {
		data["description"] = *p.Description
	}
	out, err := h.db.InsertRecord(ctx, pgcrud.InsertRecordInput{
		TableName: itemsTable,
		Data:      data,
	})
	if err != nil {
		return nil, coreError(err)
	}
	item, ok := recordToItem(out.Record)
	if !ok {
		return nil, errorf(codeInternalError, "insert returned malformed record")
	}
	return item, nil
}

func (h *Handler) readItem(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p itemIDParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.ID == nil {
		return nil, errorf(codeInvalidParams, "id is required")
	}

	out, err := h.db.SelectRecords(ctx, pgcrud.SelectRecordsInput{
		TableName:   itemsTable,
		WhereClause: "id = $1",
		WhereParams: []any{*p.ID},
	})
	if err != nil {
		return nil, coreError(err)
	}
	if out.ReturnedCount == 0 {
		return nil, errorf(codeInvalidParams, "Item with id %d not found", *p.ID)
	}
	item, ok := recordToItem(out.Records[0])
	if !ok {
		return nil, errorf(codeInternalError, "select returned malformed record")
	}
	return item, nil
}

func (h *Handler) updateItem(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p updateItemParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.ID == nil {
		return nil, errorf(codeInvalidParams, "id is required")
	}

	data := map[string]any{}
	if p.Name != nil {
		data["name"] = *p.Name
	}
	if p.Description != nil {
		data["description"] = *p.Description
	}
	if len(data) == 0 {
		return nil, errorf(codeInvalidParams, "no fields to update")
	}

	out, err := h.db.UpdateRecords(ctx, pgcrud.UpdateRecordsInput{
		TableName:   itemsTable,
		Data:        data,
		WhereClause: "id = $1",
		WhereParams: []any{*p.ID},
	})
	if err != nil {
		return nil, coreError(err)
	}
	if out.RowsAffected == 0 {
		return nil, errorf(codeInvalidParams, "Item with id %d not found", *p.ID)
	}
	item, ok := recordToItem(out.Records[0])
	if !ok {
		return nil, errorf(codeInternalError, "update returned malformed record")
	}
	return item, nil
}

func (h *Handler) deleteItem(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p itemIDParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.ID == nil {
		return nil, errorf(codeInvalidParams, "id is required")
	}

	out, err := h.db.DeleteRecords(ctx, pgcrud.DeleteRecordsInput{
		TableName:     itemsTable,
		WhereClause:   "id = $1",
		WhereParams:   []any{*p.ID},
		ReturnRecords: true,
	})
	if err != nil {
		return nil, coreError(err)
	}
	if out.RowsAffected == 0 {
		return nil, errorf(codeInvalidParams, "Item with id %d not found", *p.ID)
	}
	item, ok := recordToItem(out.Records[0])
	if !ok {
		return nil, errorf(codeInternalError, "delete returned malformed record")
	}
	return item, nil
}

func (h *Handler) queryItems(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p queryItemsParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}

	limit := 10
	if p.Limit != nil {
		limit = *p.Limit
	}
	offset := 0
	if p.Offset != nil {
		offset = *p.Offset
	}
	if limit < 0 || offset < 0 {
		return nil, errorf(codeInvalidParams, "limit and offset cannot be negative")
	}

	input := pgcrud.SelectRecordsInput{
		TableName: itemsTable,
		OrderBy:   "id ASC",
		Limit:     &limit,
		Offset:    &offset,
	}
	if p.NameFilter != nil && *p.NameFilter != "" {
		input.WhereClause = "name ILIKE $1"
		input.WhereParams = []any{"%" + *p.NameFilter + "%"}
	}

	out, err := h.db.SelectRecords(ctx, input)
	if err != nil {
		return nil, coreError(err)
	}

	items := make([]Item, 0, len(out.Records))
	for _, record := range out.Records {
		if item, ok := recordToItem(record); ok {
			items = append(items, item)
		}
	}
	return queryItemsResult{
		Items:  items,
		Total:  out.TotalCount,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func decodeParams(params json.RawMessage, out any) *rpcError {
	if len(params) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(params))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return errorf(codeInvalidParams, "invalid params: %v", err)
	}
	return nil
}

// recordToItem projects a normalized record onto the item shape. Numeric
// fields may arrive as int64 from the driver or json.Number/float64 after a
// JSON round-trip.
func recordToItem(record pgcrud.Record) (Item, bool) {
	id, ok := asInt64(record["id"])
	if !ok {
		return Item{}, false
	}
	item := Item{ID: id}
	if name, ok := record["name"].(string); ok {
		item.Name = name
	}
	if desc, ok := record["description"].(string); ok {
		item.Description = &desc
	}
	return item, true
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
