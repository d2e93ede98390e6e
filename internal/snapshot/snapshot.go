// Package snapshot persists the start point of a table so that changes can
// be computed against a later end point, possibly in another process.
//
// A snapshot is a MessagePack document compressed with ZStandard. Every
// value is stored with its tag and its canonical text, so that a snapshot
// read back compares equal to the table it was taken from. Numbers come
// back as *apd.Decimal whatever their original Go type.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/apd/v3"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/dbcheck/internal/arrowtab"
	"github.com/roach88/dbcheck/internal/table"
	"github.com/roach88/dbcheck/internal/value"
)

const formatVersion = 1

// ArrowExt is the file extension of snapshots stored as Arrow IPC streams.
const ArrowExt = ".arrow"

type document struct {
	Version    int      `msgpack:"version"`
	Name       string   `msgpack:"name"`
	Columns    []string `msgpack:"columns"`
	PrimaryKey []string `msgpack:"primary_key,omitempty"`
	Rows       [][]cell `msgpack:"rows"`
}

// cell is a tagged value. An empty tag is null.
type cell struct {
	Tag   string `msgpack:"t,omitempty"`
	Text  string `msgpack:"s,omitempty"`
	Bytes []byte `msgpack:"b,omitempty"`
}

// Codec encodes and decodes snapshots. Create once and reuse; it is safe
// for concurrent use.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCodec creates a reusable snapshot codec.
// Caller must call Close() when done to release resources.
func NewCodec() (*Codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Codec{encoder: encoder, decoder: decoder}, nil
}

// Close releases codec resources.
func (c *Codec) Close() error {
	c.decoder.Close()
	return c.encoder.Close()
}

// Encode serializes t.
func (c *Codec) Encode(t *table.Table) ([]byte, error) {
	doc := document{
		Version:    formatVersion,
		Name:       t.Name,
		Columns:    t.Columns,
		PrimaryKey: t.PrimaryKey,
		Rows:       make([][]cell, len(t.Rows)),
	}
	for r, row := range t.Rows {
		doc.Rows[r] = make([]cell, len(row))
		for i, v := range row {
			cl, err := encodeCell(v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", r, t.Columns[i], err)
			}
			doc.Rows[r][i] = cl
		}
	}

	data, err := msgpack.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decode deserializes a snapshot produced by Encode.
func (c *Codec) Decode(compressed []byte) (*table.Table, error) {
	if len(compressed) == 0 {
		return nil, fmt.Errorf("empty snapshot")
	}
	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	var doc document
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	if doc.Version != formatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}

	t := &table.Table{Name: doc.Name, Columns: doc.Columns, PrimaryKey: doc.PrimaryKey, Rows: make([][]any, len(doc.Rows))}
	for r, row := range doc.Rows {
		if len(row) != len(doc.Columns) {
			return nil, fmt.Errorf("row %d has %d values for %d columns", r, len(row), len(doc.Columns))
		}
		t.Rows[r] = make([]any, len(row))
		for i, cl := range row {
			v, err := decodeCell(cl)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", r, doc.Columns[i], err)
			}
			t.Rows[r][i] = v
		}
	}
	return t, nil
}

func encodeCell(v any) (cell, error) {
	if value.IsNull(v) {
		return cell{}, nil
	}
	norm, tag := value.Normalize(v)
	c := cell{Tag: tag.String()}
	switch tag {
	case value.TagBoolean:
		c.Text = strconv.FormatBool(norm.(bool))
	case value.TagText:
		c.Text = norm.(string)
	case value.TagNumber:
		c.Text = norm.(*apd.Decimal).String()
	case value.TagBytes:
		c.Bytes = norm.([]byte)
		if c.Bytes == nil {
			c.Bytes = []byte{}
		}
	case value.TagDate, value.TagTime, value.TagDateTime:
		c.Text = norm.(fmt.Stringer).String()
	default:
		return cell{}, fmt.Errorf("value of type %T cannot be stored in a snapshot", v)
	}
	return c, nil
}

func decodeCell(c cell) (any, error) {
	if c.Tag == "" {
		return nil, nil
	}
	tag, err := value.ParseTag(c.Tag)
	if err != nil {
		return nil, err
	}
	switch tag {
	case value.TagBoolean:
		return strconv.ParseBool(c.Text)
	case value.TagText:
		return c.Text, nil
	case value.TagNumber:
		return value.ParseNumber(c.Text)
	case value.TagBytes:
		if c.Bytes == nil {
			return []byte{}, nil
		}
		return c.Bytes, nil
	case value.TagDate:
		return value.ParseDate(c.Text)
	case value.TagTime:
		return value.ParseTime(c.Text)
	case value.TagDateTime:
		return value.ParseDateTime(c.Text)
	}
	return nil, fmt.Errorf("tag %s cannot be read from a snapshot", tag)
}

var defaultCodec = sync.OnceValues(NewCodec)

// WriteFile writes t to path. A path ending in ArrowExt is written as an
// Arrow IPC stream, any other path as a compressed snapshot.
func WriteFile(path string, t *table.Table) error {
	if isArrow(path) {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		if err := arrowtab.WriteIPC(f, t); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	codec, err := defaultCodec()
	if err != nil {
		return err
	}
	data, err := codec.Encode(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadFile reads a table written by WriteFile.
func ReadFile(path string) (*table.Table, error) {
	if isArrow(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()
		return arrowtab.ReadIPC("", f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	codec, err := defaultCodec()
	if err != nil {
		return nil, err
	}
	return codec.Decode(data)
}

func isArrow(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ArrowExt)
}
