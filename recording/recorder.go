// Package recording stores clock events and clock tree snapshots in a
// database.
package recording

import (
	"fmt"
	"reflect"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table with the columns of the sample entry.
	// Columns are the exported fields of the struct, in order.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes an entry into a table that already exists. Entries
	// are buffered until the next Flush.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all the tables created.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush()

	// Close flushes and closes the database.
	Close() error
}

// RecorderConfig selects and configures a DataRecorder backend.
type RecorderConfig struct {
	// Type is "sqlite" (the default) or "clickhouse".
	Type string

	// Path is the SQLite database name, without the ".sqlite3" extension.
	// An empty path picks a unique name.
	Path string

	// ConnStr is a ClickHouse DSN such as
	// "clickhouse://localhost:9000/clocks?username=default". It takes
	// precedence over the individual connection fields.
	ConnStr  string
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// BatchSize is the number of buffered entries that triggers a flush.
	BatchSize int
}

const defaultBatchSize = 100000

// NewDataRecorderWithConfig creates the backend described by the config.
func NewDataRecorderWithConfig(config RecorderConfig) (DataRecorder, error) {
	if config.BatchSize == 0 {
		config.BatchSize = defaultBatchSize
	}

	var (
		recorder DataRecorder
		err      error
	)

	switch config.Type {
	case "", "sqlite":
		recorder, err = newSQLiteWriter(config.Path, config.BatchSize)
	case "clickhouse":
		recorder, err = newClickHouseRecorder(config)
	default:
		return nil, fmt.Errorf("unknown recorder type %q", config.Type)
	}

	if err != nil {
		return nil, err
	}

	return recorder, nil
}

// NewDataRecorder creates a SQLite recorder writing to path.sqlite3.
func NewDataRecorder(path string) (DataRecorder, error) {
	return NewDataRecorderWithConfig(RecorderConfig{Path: path})
}

type table struct {
	structType reflect.Type
	entries    []any
}

func isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)
	if types == nil || types.Kind() != reflect.Struct {
		return fmt.Errorf("entry %T is not a struct", entry)
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		if !field.IsExported() {
			return fmt.Errorf("field %s of %T is not exported", field.Name, entry)
		}

		if !isAllowedType(field.Type.Kind()) {
			return fmt.Errorf("field %s of %T has unsupported type %s",
				field.Name, entry, field.Type)
		}
	}

	return nil
}

func fieldValues(entry any) []any {
	v := reflect.ValueOf(entry)
	values := make([]any, 0, v.NumField())

	for i := 0; i < v.NumField(); i++ {
		values = append(values, v.Field(i).Interface())
	}

	return values
}
