// Package arrowtab converts between Apache Arrow record batches and
// table.Table values, so that columnar data can be checked like a
// database table and tables can be exchanged as Arrow IPC streams.
package arrowtab

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/dbcheck/internal/table"
	"github.com/roach88/dbcheck/internal/value"
)

// Schema metadata keys written by Schema.
const (
	tableMetadata      = "dbcheck.table"
	primaryKeyMetadata = "dbcheck.primary_key" // comma separated
)

// FromRecords reads record batches sharing a schema into a table called name.
// An empty name is taken from the schema metadata written by Schema.
func FromRecords(name string, schema *arrow.Schema, records ...arrow.RecordBatch) (*table.Table, error) {
	columns := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		columns[i] = f.Name
	}
	md := schema.Metadata()
	if name == "" {
		name, _ = md.GetValue(tableMetadata)
	}
	t := table.New(name, columns...)
	t.Rows = [][]any{}
	if pk, ok := md.GetValue(primaryKeyMetadata); ok && pk != "" {
		t.PrimaryKey = strings.Split(pk, ",")
	}

	for _, rec := range records {
		for r := 0; r < int(rec.NumRows()); r++ {
			row := make([]any, rec.NumCols())
			for c := 0; c < int(rec.NumCols()); c++ {
				v, err := extractValue(rec.Column(c), r)
				if err != nil {
					return nil, fmt.Errorf("column %s: %w", columns[c], err)
				}
				row[c] = v
			}
			t.Rows = append(t.Rows, row)
		}
	}
	return t, nil
}

// ReadIPC reads an Arrow IPC stream into a table called name. An empty name
// is taken from the stream metadata.
func ReadIPC(name string, r io.Reader) (*table.Table, error) {
	reader, err := ipc.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create IPC reader: %w", err)
	}
	defer reader.Release()

	var records []arrow.RecordBatch
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()
	for reader.Next() {
		rec := reader.RecordBatch()
		rec.Retain()
		records = append(records, rec)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read IPC record: %w", err)
	}
	return FromRecords(name, reader.Schema(), records...)
}

// extractValue converts the value at idx of an Arrow array to the Go value
// the classifier expects.
func extractValue(col arrow.Array, idx int) (any, error) {
	if col.IsNull(idx) {
		return nil, nil
	}
	switch arr := col.(type) {
	case *array.Boolean:
		return arr.Value(idx), nil
	case *array.Int8:
		return arr.Value(idx), nil
	case *array.Int16:
		return arr.Value(idx), nil
	case *array.Int32:
		return arr.Value(idx), nil
	case *array.Int64:
		return arr.Value(idx), nil
	case *array.Uint8:
		return arr.Value(idx), nil
	case *array.Uint16:
		return arr.Value(idx), nil
	case *array.Uint32:
		return arr.Value(idx), nil
	case *array.Uint64:
		return arr.Value(idx), nil
	case *array.Float32:
		return arr.Value(idx), nil
	case *array.Float64:
		return arr.Value(idx), nil
	case *array.Decimal128:
		scale := arr.DataType().(*arrow.Decimal128Type).Scale
		d, err := value.ParseNumber(arr.Value(idx).ToString(scale))
		if err != nil {
			return nil, err
		}
		return d, nil
	case *array.String:
		return arr.Value(idx), nil
	case *array.LargeString:
		return arr.Value(idx), nil
	case *array.Binary:
		return bytes.Clone(arr.Value(idx)), nil
	case *array.LargeBinary:
		return bytes.Clone(arr.Value(idx)), nil
	case *array.Date32:
		return value.DateFromTime(arr.Value(idx).ToTime()), nil
	case *array.Date64:
		return value.DateFromTime(arr.Value(idx).ToTime()), nil
	case *array.Time32:
		unit := arr.DataType().(*arrow.Time32Type).Unit
		return value.TimeFromTime(arr.Value(idx).ToTime(unit)), nil
	case *array.Time64:
		unit := arr.DataType().(*arrow.Time64Type).Unit
		return value.TimeFromTime(arr.Value(idx).ToTime(unit)), nil
	case *array.Timestamp:
		unit := arr.DataType().(*arrow.TimestampType).Unit
		return value.DateTimeFromTime(arr.Value(idx).ToTime(unit)), nil
	default:
		return nil, fmt.Errorf("unsupported Arrow type %s", col.DataType())
	}
}

// Schema infers the Arrow schema of t from the tags of its values. Every
// non-null value of a column must have the same tag; a column with only
// nulls is a string column.
func Schema(t *table.Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(t.Columns))
	for c, name := range t.Columns {
		dt, err := columnType(t, c)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		fields[c] = arrow.Field{Name: name, Type: dt, Nullable: true}
	}
	keys, values := []string{tableMetadata}, []string{t.Name}
	if len(t.PrimaryKey) > 0 {
		keys = append(keys, primaryKeyMetadata)
		values = append(values, strings.Join(t.PrimaryKey, ","))
	}
	md := arrow.NewMetadata(keys, values)
	return arrow.NewSchema(fields, &md), nil
}

func columnType(t *table.Table, c int) (arrow.DataType, error) {
	tag := value.TagNotIdentified
	integral := true
	for _, row := range t.Rows {
		if value.IsNull(row[c]) {
			continue
		}
		norm, got := value.Normalize(row[c])
		if got == value.TagNotIdentified {
			return nil, fmt.Errorf("value of type %T has no Arrow type", row[c])
		}
		if tag != value.TagNotIdentified && got != tag {
			return nil, fmt.Errorf("mixed value types %s and %s", tag, got)
		}
		tag = got
		if got == value.TagNumber {
			integral = integral && isInt64(norm.(*apd.Decimal))
		}
	}

	switch tag {
	case value.TagBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case value.TagNumber:
		if integral {
			return arrow.PrimitiveTypes.Int64, nil
		}
		return arrow.PrimitiveTypes.Float64, nil
	case value.TagBytes:
		return arrow.BinaryTypes.Binary, nil
	case value.TagDate:
		return arrow.FixedWidthTypes.Date32, nil
	case value.TagTime:
		return arrow.FixedWidthTypes.Time64ns, nil
	case value.TagDateTime:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	default:
		return arrow.BinaryTypes.String, nil
	}
}

func isInt64(d *apd.Decimal) bool {
	var r apd.Decimal
	r.Reduce(d)
	if r.Exponent < 0 {
		return false
	}
	_, err := r.Int64()
	return err == nil
}

// ToRecord builds a single record batch holding every row of t. The caller
// must release it.
func ToRecord(t *table.Table, alloc memory.Allocator) (arrow.RecordBatch, error) {
	schema, err := Schema(t)
	if err != nil {
		return nil, err
	}

	builder := array.NewRecordBuilder(alloc, schema)
	defer builder.Release()

	for r, row := range t.Rows {
		for c, v := range row {
			if err := appendValue(builder.Field(c), v); err != nil {
				return nil, fmt.Errorf("failed to append row %d column %s: %w", r, t.Columns[c], err)
			}
		}
	}
	return builder.NewRecordBatch(), nil
}

// WriteIPC writes t as an Arrow IPC stream.
func WriteIPC(w io.Writer, t *table.Table) error {
	alloc := memory.DefaultAllocator
	record, err := ToRecord(t, alloc)
	if err != nil {
		return err
	}
	defer record.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(record.Schema()), ipc.WithAllocator(alloc))
	if err := writer.Write(record); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write IPC record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close IPC writer: %w", err)
	}
	return nil
}

// appendValue appends a table value to an Arrow array builder.
func appendValue(b array.Builder, v any) error {
	if value.IsNull(v) {
		b.AppendNull()
		return nil
	}
	norm, _ := value.Normalize(v)

	switch bb := b.(type) {
	case *array.BooleanBuilder:
		bb.Append(norm.(bool))
	case *array.StringBuilder:
		bb.Append(norm.(string))
	case *array.BinaryBuilder:
		bb.Append(norm.([]byte))
	case *array.Int64Builder:
		i, err := norm.(*apd.Decimal).Int64()
		if err != nil {
			return err
		}
		bb.Append(i)
	case *array.Float64Builder:
		f, err := norm.(*apd.Decimal).Float64()
		if err != nil {
			return err
		}
		bb.Append(f)
	case *array.Date32Builder:
		d := norm.(value.Date)
		bb.Append(arrow.Date32FromTime(time.Date(d.Year(), time.Month(d.Month()), d.Day(), 0, 0, 0, 0, time.UTC)))
	case *array.Time64Builder:
		bb.Append(arrow.Time64(nanosOfDay(norm.(value.Time))))
	case *array.TimestampBuilder:
		dt := norm.(value.DateTime)
		d, tm := dt.Date(), dt.Time()
		ts, err := arrow.TimestampFromTime(time.Date(d.Year(), time.Month(d.Month()), d.Day(),
			tm.Hour(), tm.Minutes(), tm.Seconds(), tm.Nanoseconds(), time.UTC), arrow.Nanosecond)
		if err != nil {
			return err
		}
		bb.Append(ts)
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

func nanosOfDay(t value.Time) int64 {
	return ((int64(t.Hour())*60+int64(t.Minutes()))*60+int64(t.Seconds()))*int64(time.Second) + int64(t.Nanoseconds())
}
