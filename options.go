package activator

import (
	"io"
	"log/slog"

	"github.com/viant/activator/conv"
	"github.com/viant/tagly/format/text"
)

type options struct {
	converter       *conv.Converter
	caseInsensitive bool
	nameFormat      text.CaseFormat
	aggregate       bool
	strict          bool
	logger          *slog.Logger
	registry        *Registry
}

//Option activator option
type Option func(o *options)

//Options represents activator options
type Options []Option

//Apply applies options
func (o Options) Apply(opts *options) {
	for _, opt := range o {
		opt(opts)
	}
}

func newOptions(opts []Option) *options {
	ret := &options{}
	Options(opts).Apply(ret)
	if ret.converter == nil {
		ret.converter = conv.NewConverter(conv.DefaultOptions())
	}
	if ret.logger == nil {
		ret.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if ret.registry == nil {
		ret.registry = NewRegistry()
	}
	return ret
}

//WithConverter sets converter, use it to register custom conversions and enums
func WithConverter(converter *conv.Converter) Option {
	return func(o *options) {
		o.converter = converter
	}
}

//WithCaseInsensitiveNames matches entry names ignoring case
func WithCaseInsensitiveNames() Option {
	return func(o *options) {
		o.caseInsensitive = true
	}
}

//WithNameFormat matches entry names after normalizing both sides to caseFormat,
//i.e. with text.CaseFormatLowerCamel "max_connections" matches "maxConnections"
func WithNameFormat(caseFormat text.CaseFormat) Option {
	return func(o *options) {
		o.nameFormat = caseFormat
	}
}

//WithPositionalAggregation collects all remaining positional entries into the first container parameter
func WithPositionalAggregation() Option {
	return func(o *options) {
		o.aggregate = true
	}
}

//WithStrictSelection reports a tie between best ranked constructors as an error
func WithStrictSelection() Option {
	return func(o *options) {
		o.strict = true
	}
}

//WithLogger sets logger, debug level records constructor scoring
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

//WithRegistry sets named type registry used by ActivateNamed
func WithRegistry(registry *Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}
