// Package settings loads and saves Claude settings.json documents while
// keeping every value it does not touch exactly as it was read.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrNotObject is returned by Parse when the top-level JSON value is not an
// object.
var ErrNotObject = errors.New("settings: document is not a JSON object")

// ErrMalformed is returned by Parse for content that is not valid JSON.
var ErrMalformed = errors.New("settings: malformed JSON")

// Document is a JSON object whose values are held as raw bytes in their
// original key order.
type Document struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// New returns an empty document.
func New() *Document {
	return &Document{fields: orderedmap.New[string, json.RawMessage]()}
}

// Parse decodes a JSON object. Empty input and a literal null both yield an
// empty document.
func Parse(data []byte) (*Document, error) {
	doc := New()
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return doc, nil
	}
	if !json.Valid(data) {
		return nil, ErrMalformed
	}
	if data[0] != '{' {
		return nil, ErrNotObject
	}
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		doc.fields.Set(string(key), rawValue(value, dataType))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return doc, nil
}

// rawValue copies a value out of the parser's buffer. jsonparser hands out
// strings without their quotes but with escapes intact.
func rawValue(value []byte, dataType jsonparser.ValueType) json.RawMessage {
	if dataType == jsonparser.String {
		raw := make([]byte, 0, len(value)+2)
		raw = append(raw, '"')
		raw = append(raw, value...)
		return append(raw, '"')
	}
	return append(json.RawMessage(nil), value...)
}

// Len returns the number of top-level keys.
func (d *Document) Len() int { return d.fields.Len() }

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.fields.Len())
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Get returns the raw value stored under key.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	return d.fields.Get(key)
}

// Set stores raw under key. New keys go last; existing keys keep their
// position.
func (d *Document) Set(key string, raw json.RawMessage) {
	d.fields.Set(key, raw)
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	_, present := d.fields.Delete(key)
	return present
}

// Object returns the value under key parsed as a nested document. It reports
// false when the key is missing or does not hold an object.
func (d *Document) Object(key string) (*Document, bool) {
	raw, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	if _, dataType, _, err := jsonparser.Get(raw); err != nil || dataType != jsonparser.Object {
		return nil, false
	}
	obj, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	return obj, true
}

// GetString returns the value under key decoded as a string. It reports false
// when the key is missing or holds another type.
func (d *Document) GetString(key string) (string, bool) {
	raw, ok := d.Get(key)
	if !ok {
		return "", false
	}
	s, err := jsonparser.GetString(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

// SetString stores s under key as a JSON string.
func (d *Document) SetString(key, s string) error {
	raw, err := EncodeString(s)
	if err != nil {
		return err
	}
	d.Set(key, raw)
	return nil
}

// SetObject stores obj under key in compact form.
func (d *Document) SetObject(key string, obj *Document) {
	d.Set(key, obj.compact())
}

// GetBool returns the value under key decoded as a boolean.
func (d *Document) GetBool(key string) (bool, bool) {
	raw, ok := d.Get(key)
	if !ok {
		return false, false
	}
	b, err := jsonparser.GetBoolean(raw)
	if err != nil {
		return false, false
	}
	return b, true
}

// SetBool stores b under key.
func (d *Document) SetBool(key string, b bool) {
	if b {
		d.Set(key, json.RawMessage("true"))
		return
	}
	d.Set(key, json.RawMessage("false"))
}

// EncodeString renders s as a JSON string without HTML escaping, so shell
// operators such as && stay readable in the file.
func EncodeString(s string) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func (d *Document) compact() json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, _ := EncodeString(pair.Key) // encoding a Go string cannot fail
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(pair.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// Marshal renders the document with two-space indentation and a trailing
// newline.
func (d *Document) Marshal() ([]byte, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, d.compact(), "", "  "); err != nil {
		return nil, fmt.Errorf("settings: render: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// ---------------------------------------------------------------------------
// File I/O
// ---------------------------------------------------------------------------

// Load reads the document at path. A missing, unreadable or malformed file
// yields an empty document: having no prior settings is a normal first run.
func Load(path string) *Document {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New()
	}
	if err != nil {
		slog.Warn("settings: read failed, starting empty", "path", path, "err", err)
		return New()
	}
	doc, err := Parse(data)
	if err != nil {
		slog.Warn("settings: parse failed, starting empty", "path", path, "err", err)
		return New()
	}
	return doc
}

// Save writes the document to path, creating parent directories. The file is
// replaced through a rename so readers never observe a partial write.
func Save(path string, doc *Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("settings: create %s: %w", dir, err)
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("settings: sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("settings: chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("settings: replace %s: %w", path, err)
	}
	return nil
}
