package convert

import (
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Converter renders the document at path to an HTML fragment.
type Converter interface {
	Convert(ctx context.Context, path string) ([]byte, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, path string) ([]byte, error)

func (f ConverterFunc) Convert(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// decodeOutput enforces the UTF-8 contract on converter output and returns it in NFC.
func decodeOutput(out []byte) ([]byte, error) {
	if !utf8.Valid(out) {
		for i := 0; i < len(out); {
			r, size := utf8.DecodeRune(out[i:])
			if r == utf8.RuneError && size <= 1 {
				return nil, fmt.Errorf("%w at byte offset %d", ErrInvalidEncoding, i)
			}
			i += size
		}
	}
	return norm.NFC.Bytes(out), nil
}
