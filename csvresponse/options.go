package csvresponse

import (
	"fmt"
	"maps"
	"mime"
	"net/http"
	"unicode/utf8"
)

const (
	// DefaultDelimiter separates cells when no delimiter is configured.
	DefaultDelimiter = ","
	// DefaultEncoding is the legacy Western single-byte charset most
	// spreadsheet tools assume for CSV downloads.
	DefaultEncoding = "WINDOWS-1252"
)

// Options holds the formatting settings for a single Build call.
type Options struct {
	Delimiter string
	Quoted    bool
	Encoding  string
	Status    int
	Headers   map[string]string
}

// Option follows the functional options pattern used by Build.
type Option func(*Options)

// DefaultOptions returns the settings Build starts from.
func DefaultOptions() Options {
	return Options{
		Delimiter: DefaultDelimiter,
		Encoding:  DefaultEncoding,
		Status:    http.StatusOK,
	}
}

// WithDelimiter sets the cell separator. It must be exactly one character.
func WithDelimiter(delimiter string) Option {
	return func(o *Options) {
		o.Delimiter = delimiter
	}
}

// WithQuoted toggles wrapping every cell in double quotes.
func WithQuoted(quoted bool) Option {
	return func(o *Options) {
		o.Quoted = quoted
	}
}

// WithEncoding sets the target charset by IANA or WHATWG name.
func WithEncoding(encoding string) Option {
	return func(o *Options) {
		if encoding != "" {
			o.Encoding = encoding
		}
	}
}

// WithStatus overrides the status used for non-empty responses.
func WithStatus(status int) Option {
	return func(o *Options) {
		if status > 0 {
			o.Status = status
		}
	}
}

// WithHeaders merges extra response headers. They take precedence over the
// CSV defaults of the same name.
func WithHeaders(headers map[string]string) Option {
	return func(o *Options) {
		if len(headers) == 0 {
			return
		}
		if o.Headers == nil {
			o.Headers = make(map[string]string, len(headers))
		}
		maps.Copy(o.Headers, headers)
	}
}

// WithHeader sets a single extra response header.
func WithHeader(name, value string) Option {
	return WithHeaders(map[string]string{name: value})
}

// WithAttachment asks clients to save the body as filename.
func WithAttachment(filename string) Option {
	if filename == "" {
		return nil
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		return nil
	}
	return WithHeader("Content-Disposition", disposition)
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o Options) validate() error {
	if utf8.RuneCountInString(o.Delimiter) != 1 {
		return fmt.Errorf("%w: delimiter must be a single character, got %q", ErrInvalidOptions, o.Delimiter)
	}
	return nil
}
