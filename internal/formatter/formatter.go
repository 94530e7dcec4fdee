package formatter

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/mcncl/convert-translations/internal/models"
)

// DefaultIndent is the number of spaces used per nesting level
const DefaultIndent = 2

// Formatter renders a value tree as indented JSON text, keeping object
// fields in insertion order.
type Formatter struct {
	api jsoniter.API
}

// NewFormatter creates a Formatter using two-space indentation
func NewFormatter() *Formatter {
	return NewFormatterWithIndent(DefaultIndent)
}

// NewFormatterWithIndent creates a Formatter with the given indentation step.
// A step of zero produces compact output.
func NewFormatterWithIndent(indent int) *Formatter {
	return &Formatter{
		api: jsoniter.Config{
			IndentionStep: indent,
			EscapeHTML:    false,
		}.Froze(),
	}
}

// Format takes a value tree and returns its JSON text. The output has no
// trailing newline.
func (f *Formatter) Format(v models.Value) (string, error) {
	stream := f.api.BorrowStream(nil)
	defer f.api.ReturnStream(stream)

	if err := writeValue(stream, v); err != nil {
		return "", err
	}
	if stream.Error != nil {
		return "", fmt.Errorf("failed to write JSON: %w", stream.Error)
	}
	return string(stream.Buffer()), nil
}

func writeValue(stream *jsoniter.Stream, v models.Value) error {
	switch v.Kind {
	case models.KindObject:
		if len(v.Fields) == 0 {
			stream.WriteEmptyObject()
			return nil
		}
		stream.WriteObjectStart()
		for i, f := range v.Fields {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(f.Key)
			if err := writeValue(stream, f.Value); err != nil {
				return err
			}
		}
		stream.WriteObjectEnd()
	case models.KindArray:
		if len(v.Items) == 0 {
			stream.WriteEmptyArray()
			return nil
		}
		stream.WriteArrayStart()
		for i, item := range v.Items {
			if i > 0 {
				stream.WriteMore()
			}
			if err := writeValue(stream, item); err != nil {
				return err
			}
		}
		stream.WriteArrayEnd()
	default:
		return writeScalar(stream, v.Leaf)
	}
	return nil
}

func writeScalar(stream *jsoniter.Stream, s models.Scalar) error {
	switch s.Kind {
	case models.KindNull:
		stream.WriteNil()
	case models.KindString:
		stream.WriteString(s.Text)
	case models.KindNumber:
		if s.Text == "" {
			return fmt.Errorf("empty number literal")
		}
		stream.WriteRaw(s.Text)
	case models.KindBool:
		stream.WriteBool(s.Text == "true")
	default:
		return fmt.Errorf("unsupported scalar kind %s", s.Kind)
	}
	return nil
}
