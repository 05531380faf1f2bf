// Package recording persists event traces into a SQLite database so that
// they can be inspected after the simulation ends.
package recording

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/devskit/eventcore/event"
	"github.com/devskit/eventcore/event/serialization"
)

const traceTable = "event_trace"

// A TraceEntry is one recorded event. The field order defines the column
// order of the trace table.
type TraceEntry struct {
	Seq     int64
	ID      string
	Kind    string
	Payload string
}

// TraceRecorder is a backend that can record and store events.
type TraceRecorder interface {
	// RecordEvent buffers one event for recording.
	RecordEvent(evt event.Event)

	// Flush writes all the buffered events into the database.
	Flush()
}

// NewWriter creates a TraceRecorder that writes into a SQLite database at
// the given path. An empty path picks a fresh random name.
func NewWriter(path string) *SQLiteWriter {
	w := &SQLiteWriter{
		dbName:    path,
		batchSize: 100000,
		manager:   serialization.NewManager(serialization.NewJSONCodec()),
	}

	w.Init()

	atexit.Register(func() { w.Flush() })

	return w
}

// NewWriterWithDB creates a TraceRecorder on an already-open database.
func NewWriterWithDB(db *sql.DB) *SQLiteWriter {
	w := &SQLiteWriter{
		DB:        db,
		batchSize: 100000,
		manager:   serialization.NewManager(serialization.NewJSONCodec()),
	}

	w.createTable()

	atexit.Register(func() { w.Flush() })

	return w
}

// SQLiteWriter is the writer that writes event traces into a SQLite
// database.
type SQLiteWriter struct {
	*sql.DB

	dbName     string
	batchSize  int
	manager    *serialization.Manager
	entries    []TraceEntry
	nextSeq    int64
	entryCount int
}

// Init establishes a connection to the database and creates the trace
// table.
func (w *SQLiteWriter) Init() {
	if w.dbName == "" {
		w.dbName = "event_trace_" + xid.New().String()
	}

	filename := w.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.DB = db

	w.createTable()
}

func (w *SQLiteWriter) createTable() {
	fields := strings.Join(structs.Names(TraceEntry{}), ", \n\t")

	createTableSQL := `CREATE TABLE IF NOT EXISTS ` + traceTable +
		` (` + "\n\t" + fields + "\n" + `);`
	w.mustExecute(createTableSQL)
}

// RecordEvent buffers one event. The payload is stored in its serialized
// wire form when the kind supports it, and left empty otherwise.
func (w *SQLiteWriter) RecordEvent(evt event.Event) {
	entry := TraceEntry{
		Seq:     w.nextSeq,
		Kind:    string(evt.Kind()),
		Payload: w.payloadOf(evt),
	}
	w.nextSeq++

	if identified, ok := evt.(event.Identified); ok {
		entry.ID = identified.EventID()
	}

	w.entries = append(w.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		w.Flush()
	}
}

func (w *SQLiteWriter) payloadOf(evt event.Event) string {
	buf := bytes.Buffer{}

	err := w.manager.Serialize(&buf, evt)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(buf.String())
}

// Flush writes all the buffered events into the database in one
// transaction.
func (w *SQLiteWriter) Flush() {
	if w.entryCount == 0 {
		return
	}

	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	stmt := w.prepareStatement()

	for _, entry := range w.entries {
		_, err := stmt.Exec(entry.Seq, entry.ID, entry.Kind, entry.Payload)
		if err != nil {
			panic(err)
		}
	}

	stmt.Close()

	w.entries = nil
	w.entryCount = 0
}

func (w *SQLiteWriter) mustExecute(query string) sql.Result {
	res, err := w.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (w *SQLiteWriter) prepareStatement() *sql.Stmt {
	n := structs.Names(TraceEntry{})
	for i := 0; i < len(n); i++ {
		n[i] = "?"
	}

	entryToFill := "(" + strings.Join(n, ", ") + ")"
	sqlStr := "INSERT INTO " + traceTable + " VALUES " + entryToFill

	stmt, err := w.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	return stmt
}
