package record

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/nao1215/jsonlscan/internal/model"
)

// IsBlank reports whether line is empty or whitespace-only.
func IsBlank(line string) bool {
	return strings.TrimFunc(line, unicode.IsSpace) == ""
}

// Parse returns the KeySet of the JSON object on line.
// Duplicate keys in the source text count once.
func Parse(line string) (model.KeySet, error) {
	obj, err := Decode(line)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	return model.NewKeySet(keys...), nil
}

// Decode returns the JSON object on line with its values left undecoded.
// The whole line, nested values included, must be valid JSON.
func Decode(line string) (map[string]json.RawMessage, error) {
	data := bytes.TrimSpace([]byte(line))

	if len(data) == 0 || data[0] != '{' {
		return nil, classify(data)
	}

	// RawMessage values are not checked by Unmarshal.
	if !json.Valid(data) {
		return nil, syntaxError(data)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &ParseError{Kind: model.FailureSyntax, Err: err}
	}
	return obj, nil
}

// classify builds the error for input that cannot be an object.
// Valid alone accepts truncated literals such as "nul", so the value must
// also decode.
func classify(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &ParseError{Kind: model.FailureSyntax, Err: err}
	}
	if !json.Valid(data) {
		return &ParseError{Kind: model.FailureSyntax}
	}
	return &ParseError{Kind: model.FailureNotObject}
}

// syntaxError returns a syntax ParseError carrying the decoder's message
// when it has one.
func syntaxError(data []byte) error {
	var v any
	return &ParseError{Kind: model.FailureSyntax, Err: json.Unmarshal(data, &v)}
}
