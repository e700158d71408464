package exporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"footlens/pkg/contracts/domain"
)

// WriteJSON writes the frame as an array of objects, one per row, with keys in
// column order. Missing numbers are null.
func WriteJSON(w io.Writer, frame domain.Frame) error {
	if err := frame.Validate(); err != nil {
		return err
	}

	keys := make([][]byte, len(frame.Columns))
	for i, name := range frame.Columns {
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("[")
	for i, row := range frame.Rows {
		if i > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n  {")
		for j, cell := range row {
			if j > 0 {
				bw.WriteString(", ")
			}
			bw.Write(keys[j])
			bw.WriteString(": ")
			v, err := jsonValue(cell)
			if err != nil {
				return fmt.Errorf("failed to encode record %d: %w", i, err)
			}
			bw.Write(v)
		}
		bw.WriteString("}")
	}
	if len(frame.Rows) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")
	return bw.Flush()
}

func jsonValue(c domain.Cell) ([]byte, error) {
	if c.Kind != domain.KindNumber {
		return json.Marshal(c.Text)
	}
	if !c.Number.Valid {
		return []byte("null"), nil
	}
	return []byte(formatFloat(c.Number.Float64)), nil
}

// ReadJSON reads a JSON export back into a frame. Columns follow the key order
// of the first object; keys missing from later objects read as empty.
func ReadJSON(r io.Reader) (domain.Frame, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return domain.Frame{}, err
	}

	var columns []string
	var records []map[string]interface{}
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return domain.Frame{}, err
		}
		rec := make(map[string]interface{})
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return domain.Frame{}, fmt.Errorf("failed to read key: %w", err)
			}
			key, ok := tok.(string)
			if !ok {
				return domain.Frame{}, fmt.Errorf("expected object key, got %v", tok)
			}
			var value interface{}
			if err := dec.Decode(&value); err != nil {
				return domain.Frame{}, fmt.Errorf("failed to read value of %q: %w", key, err)
			}
			if len(records) == 0 {
				columns = append(columns, key)
			}
			rec[key] = value
		}
		if err := expectDelim(dec, '}'); err != nil {
			return domain.Frame{}, err
		}
		records = append(records, rec)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return domain.Frame{}, err
	}

	frame := domain.Frame{
		Columns: columns,
		Kinds:   domain.KindsFor(columns),
		Rows:    make([][]domain.Cell, 0, len(records)),
	}
	for _, rec := range records {
		row := make([]domain.Cell, len(columns))
		for j, name := range columns {
			row[j] = parseCell(frame.Kinds[j], jsonText(rec[name]))
		}
		frame.Rows = append(frame.Rows, row)
	}
	return frame, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func jsonText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
