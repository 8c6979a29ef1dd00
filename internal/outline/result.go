package outline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Trailing whitespace required by the output format.
const (
	titleSuffix   = "  "
	headingSuffix = " "
)

// Heading is one outline entry. Page is 0-based.
type Heading struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Result is the title and outline of one document.
type Result struct {
	Title   string    `json:"title"`
	Outline []Heading `json:"outline"`
}

// Empty is the result reported for documents that could not be processed.
func Empty() Result {
	return Result{Title: "", Outline: []Heading{}}
}

// MarshalJSON always emits outline as an array. Text is not HTML-escaped,
// since json.Marshal would escape it before an outer encoder could opt out.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	if r.Outline == nil {
		r.Outline = []Heading{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plain(r)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Encode writes r with four-space indentation and without HTML escaping.
func Encode(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode outline: %w", err)
	}
	return nil
}

// Decode reads a result written by Encode.
func Decode(r io.Reader) (Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("decode outline: %w", err)
	}
	if res.Outline == nil {
		res.Outline = []Heading{}
	}
	return res, nil
}
