package recording

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
)

// QueryParams encapsulates all query parameters
type QueryParams struct {
	// Where holds the WHERE clause without the "WHERE" keyword
	// Example: "Kind = ? AND Seq > ?"
	Where string

	// Args holds the arguments for the placeholders in Where
	Args []any

	// Limit is the maximum number of records to return (pagination)
	// Set to 0 for no limit
	Limit int

	// Offset is the number of records to skip (pagination)
	Offset int

	// OrderBy specifies sorting, without the "ORDER BY" keywords
	// Example: "Seq DESC"
	OrderBy string
}

// TraceReader can read recorded event traces back from a database.
type TraceReader interface {
	// Query returns the trace entries that match the parameters, together
	// with the total number of matching entries before pagination.
	Query(ctx context.Context, params QueryParams) (
		entries []TraceEntry,
		totalCount int,
		err error,
	)

	// Close closes the reader.
	Close() error
}

// SQLiteReader reads event traces from a SQLite database.
type SQLiteReader struct {
	*sql.DB
}

// NewReader creates a TraceReader over the database at the given path.
func NewReader(dbFilename string) *SQLiteReader {
	db, err := sql.Open("sqlite3", dbFilename+".sqlite3")
	if err != nil {
		panic(err)
	}

	return &SQLiteReader{DB: db}
}

// NewReaderWithDB creates a TraceReader on an already-open database.
func NewReaderWithDB(db *sql.DB) *SQLiteReader {
	return &SQLiteReader{DB: db}
}

// Query returns the trace entries that match the parameters.
func (r *SQLiteReader) Query(
	ctx context.Context,
	params QueryParams,
) ([]TraceEntry, int, error) {
	totalCount, err := r.countMatches(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT " +
		strings.Join(structs.Names(TraceEntry{}), ", ") +
		" FROM " + traceTable
	query += whereClause(params)

	if params.OrderBy != "" {
		query += " ORDER BY " + params.OrderBy
	}

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d",
			params.Limit, params.Offset)
	}

	rows, err := r.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []TraceEntry{}

	for rows.Next() {
		entry := TraceEntry{}

		err := rows.Scan(&entry.Seq, &entry.ID, &entry.Kind, &entry.Payload)
		if err != nil {
			return nil, 0, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return entries, totalCount, nil
}

func (r *SQLiteReader) countMatches(
	ctx context.Context,
	params QueryParams,
) (int, error) {
	query := "SELECT COUNT(*) FROM " + traceTable + whereClause(params)

	count := 0
	err := r.QueryRowContext(ctx, query, params.Args...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func whereClause(params QueryParams) string {
	if params.Where == "" {
		return ""
	}

	return " WHERE " + params.Where
}
