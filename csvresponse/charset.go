package csvresponse

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

var errInvalidUTF8 = errors.New("text is not valid UTF-8")

// ValidateEncoding reports whether name resolves to a charset Build can
// produce. Names are matched case-insensitively against the IANA registry and
// then the WHATWG labels. Labels that WHATWG maps to its replacement encoding
// are rejected, since that encoder passes UTF-8 through unchanged.
func ValidateEncoding(name string) error {
	_, err := lookupEncoding(name)
	return err
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	label := strings.TrimSpace(name)
	if label == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownEncoding)
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(label); err == nil && enc != nil && enc != encoding.Replacement {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// encodeText converts UTF-8 text into the named charset. Runes the charset
// cannot represent fail the conversion instead of being replaced.
func encodeText(text, name string) ([]byte, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, &FormattingError{Encoding: name, Err: err}
	}
	if !utf8.ValidString(text) {
		return nil, &FormattingError{Encoding: name, Err: errInvalidUTF8}
	}

	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, &FormattingError{Encoding: name, Err: err}
	}
	return out, nil
}
