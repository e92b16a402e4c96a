package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/tidwall/pretty"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
)

var prettyOptions = &pretty.Options{
	Width:  80,
	Indent: "    ",
}

// MarshalJSON renders src as an indented JSON array of records with keys
// in field order. Records that would not decode back unchanged, such as
// text that is not valid UTF-8, fail the whole export.
func MarshalJSON(src storage.Reader) ([]byte, error) {
	i := 0
	for r := range src.All() {
		if err := core.ValidateRecord(&r); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.TransactionID, err)
		}
		i++
	}
	data, err := json.Marshal(storage.Exportable(src))
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return pretty.PrettyOptions(data, prettyOptions), nil
}

// WriteJSON writes src to w as an indented JSON array.
func WriteJSON(w io.Writer, src storage.Reader) error {
	data, err := MarshalJSON(src)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadJSON reads an array written by WriteJSON. Amounts are decoded from
// their literal text so they round-trip exactly.
func ReadJSON(r io.Reader) ([]core.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := make([]core.Record, 0, len(objects))
	for i, obj := range objects {
		e := make(core.ExportRecord, 0, core.FieldCount)
		for _, name := range core.FieldNames() {
			if v, ok := obj[name]; ok {
				e = append(e, core.ExportField{Name: name, Value: v})
			}
		}
		record, err := core.RecordFromExport(e)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// WriteJSONGzip writes the JSON array through a gzip stream.
func WriteJSONGzip(w io.Writer, src storage.Reader) error {
	data, err := MarshalJSON(src)
	if err != nil {
		return err
	}
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadJSONGzip reads an array written by WriteJSONGzip.
func ReadJSONGzip(r io.Reader) ([]core.Record, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()
	return ReadJSON(zr)
}

// WriteMUS writes src as a MUS record stream.
func WriteMUS(w io.Writer, src storage.Reader) error {
	_, err := w.Write(storage.MarshalRecords(src))
	return err
}

// ReadMUS reads a stream written by WriteMUS.
func ReadMUS(r io.Reader) ([]core.Record, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return storage.UnmarshalRecords(buf.Bytes())
}
