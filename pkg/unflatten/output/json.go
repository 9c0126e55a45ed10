// Package output serializes unflattened records.
package output

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

// ErrInvalidOptions indicates output options that cannot be combined.
var ErrInvalidOptions = errors.New("invalid output options")

// Options configures JSON output.
type Options struct {
	// Pretty indents the document. Pretty output is buffered before writing.
	Pretty bool
	// Envelope is the path of the records array inside a wrapping object,
	// e.g. "records" or "package.releases". Empty writes a bare array.
	Envelope string
	// Metadata holds values set beside the records array, keyed by path.
	// It requires an Envelope.
	Metadata map[string]interface{}
	// Lines writes one record per line with no surrounding array.
	Lines bool
}

func (o Options) validate() error {
	if o.Lines && (o.Envelope != "" || o.Pretty) {
		return fmt.Errorf("%w: line output cannot be enveloped or pretty-printed", ErrInvalidOptions)
	}
	if len(o.Metadata) > 0 && o.Envelope == "" {
		return fmt.Errorf("%w: metadata requires an envelope", ErrInvalidOptions)
	}
	return nil
}

// Write encodes records to w and returns how many were written. Records are
// written as they are produced unless Pretty is set.
func Write(w io.Writer, records iter.Seq[*models.Record], opts Options) (int, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}
	if opts.Pretty {
		var buf bytes.Buffer
		n, err := write(&buf, records, opts)
		if err != nil {
			return n, err
		}
		_, err = w.Write(pretty.Pretty(buf.Bytes()))
		return n, err
	}
	bw := bufio.NewWriter(w)
	n, err := write(bw, records, opts)
	if err != nil {
		return n, err
	}
	return n, bw.Flush()
}

// ToJSON encodes records into a single document.
func ToJSON(records []*models.Record, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Write(&buf, slices.Values(records), opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func write(w io.Writer, records iter.Seq[*models.Record], opts Options) (int, error) {
	start, sep, end := []byte("["), []byte(","), []byte("]")
	switch {
	case opts.Lines:
		start, sep, end = nil, []byte("\n"), []byte("\n")
	case opts.Envelope != "":
		var err error
		if start, end, err = envelope(opts); err != nil {
			return 0, err
		}
	}

	if _, err := w.Write(start); err != nil {
		return 0, err
	}
	n := 0
	for rec := range records {
		data, err := rec.MarshalJSON()
		if err != nil {
			return n, fmt.Errorf("encode record %q: %w", rec.ID, err)
		}
		if n > 0 {
			if _, err := w.Write(sep); err != nil {
				return n, err
			}
		}
		if _, err := w.Write(data); err != nil {
			return n, err
		}
		n++
	}
	if opts.Lines && n == 0 {
		return 0, nil
	}
	_, err := w.Write(end)
	return n, err
}

// envelope builds the wrapping object and splits it around the records
// array, returning the text before and after the array elements.
func envelope(opts Options) (head, tail []byte, err error) {
	doc := []byte("{}")
	keys := make([]string, 0, len(opts.Metadata))
	for k := range opts.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if doc, err = sjson.SetBytes(doc, k, opts.Metadata[k]); err != nil {
			return nil, nil, fmt.Errorf("%w: metadata %q: %v", ErrInvalidOptions, k, err)
		}
	}

	if doc, err = sjson.SetRawBytes(doc, opts.Envelope, []byte("[]")); err != nil {
		return nil, nil, fmt.Errorf("%w: envelope %q: %v", ErrInvalidOptions, opts.Envelope, err)
	}
	res := gjson.GetBytes(doc, opts.Envelope)
	if !res.IsArray() || res.Index <= 0 || res.Raw != "[]" {
		return nil, nil, fmt.Errorf("%w: envelope %q could not be placed", ErrInvalidOptions, opts.Envelope)
	}
	at := res.Index + 1
	return doc[:at:at], doc[at:], nil
}
