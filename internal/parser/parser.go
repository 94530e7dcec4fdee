package parser

import (
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mcncl/convert-translations/internal/errors" // Custom errors package
	"github.com/mcncl/convert-translations/internal/models"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

// Parse reads a single JSON document from reader, preserving object key order.
func Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to read JSON input", err)
	}
	return ParseBytes(data)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	return ParseBytes([]byte(jsonString))
}

// ParseBytes parses one JSON document. Duplicate object keys keep the
// position of their first occurrence and the value of their last.
func ParseBytes(data []byte) (models.Value, error) {
	if strings.TrimSpace(string(data)) == "" {
		return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	iter := jsoniter.ParseBytes(api, data)
	root := readValue(iter)
	if err := iterError(iter); err != nil {
		return models.Value{}, errors.NewParsingError(
			fmt.Sprintf("JSON syntax error: %v", err),
			errors.ErrInvalidJSON,
		)
	}

	// Only whitespace may follow the root value
	next := iter.WhatIsNext()
	if next != jsoniter.InvalidValue {
		return models.Value{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}
	if err := iterError(iter); err != nil {
		return models.Value{}, errors.NewParsingError(
			fmt.Sprintf("invalid trailing data after first JSON value: %v", err),
			errors.ErrInvalidJSON,
		)
	}
	if iter.Error == nil {
		return models.Value{}, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}

	return root, nil
}

// iterError hides the io.EOF the iterator records once the buffer is drained.
func iterError(iter *jsoniter.Iterator) error {
	if iter.Error == nil || stderrors.Is(iter.Error, io.EOF) {
		return nil
	}
	return iter.Error
}

// readValue decodes the next value into the tagged tree
func readValue(iter *jsoniter.Iterator) models.Value {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		fields := []models.Field{}
		index := make(map[string]int)
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			value := readValue(it)
			if i, ok := index[key]; ok {
				fields[i].Value = value
			} else {
				index[key] = len(fields)
				fields = append(fields, models.Field{Key: key, Value: value})
			}
			return iterError(it) == nil
		})
		return models.ObjectValue(fields...)
	case jsoniter.ArrayValue:
		items := []models.Value{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			items = append(items, readValue(it))
			return iterError(it) == nil
		})
		return models.ArrayValue(items...)
	case jsoniter.StringValue:
		return models.ScalarValue(models.String(iter.ReadString()))
	case jsoniter.NumberValue:
		// ReadNumber copies any run of number characters, so check the grammar here
		literal := string(iter.ReadNumber())
		if !isNumberLiteral(literal) {
			iter.ReportError("readValue", fmt.Sprintf("invalid number literal %q", literal))
			return models.Value{}
		}
		return models.ScalarValue(models.Number(literal))
	case jsoniter.BoolValue:
		return models.ScalarValue(models.Bool(iter.ReadBool()))
	case jsoniter.NilValue:
		iter.ReadNil()
		return models.ScalarValue(models.Null())
	default:
		iter.ReportError("readValue", "expected a JSON value")
		return models.Value{}
	}
}

// isNumberLiteral reports whether s matches the JSON number grammar:
// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func isNumberLiteral(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		i = skipDigits(s, i)
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		j := skipDigits(s, i+1)
		if j == i+1 {
			return false
		}
		i = j
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		j := skipDigits(s, i)
		if j == i {
			return false
		}
		i = j
	}
	return i == len(s)
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
