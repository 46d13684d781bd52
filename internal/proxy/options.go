package proxy

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"casagateway-proxy/internal/signer"
)

// Response formats
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// DefaultFormat is the SwissRETS version requested when none is given
const DefaultFormat = "swissrets:2.7"

// Options holds the inbound query after defaulting
type Options struct {
	Format       string `validate:"required"`
	Company      string
	Provider     string
	Limit        string `validate:"omitempty,number"`
	Offset       string `validate:"omitempty,number"`
	Availability string
	Type         string

	ResponseFormat string
	Debug          bool
	SimplifyImages bool
	FlattenImages  bool
}

var validate = validator.New()

// ParseOptions reads the query for profile p. Keys the profile does not
// accept are ignored.
func ParseOptions(q url.Values, p Profile, defaultFormat string) (Options, error) {
	if defaultFormat == "" {
		defaultFormat = DefaultFormat
	}
	get := func(key string) string {
		if !p.accepts(key) {
			return ""
		}
		return strings.TrimSpace(q.Get(key))
	}

	opts := Options{
		Format:         orDefault(get(signer.KeyFormat), defaultFormat),
		Company:        get(signer.KeyCompany),
		Limit:          get(signer.KeyLimit),
		Offset:         get(signer.KeyOffset),
		Availability:   get(signer.KeyAvailability),
		Type:           get(signer.KeyType),
		ResponseFormat: orDefault(q.Get("responseFormat"), FormatJSON),
		Debug:          q.Get("debug") == "true",
	}
	if p.accepts(signer.KeyProvider) {
		opts.Provider = orDefault(get(signer.KeyProvider), p.DefaultProvider)
	}
	if p.ImageReshaping {
		opts.SimplifyImages = q.Get("simplifyImages") == "true"
		opts.FlattenImages = q.Get("flattenImages") == "true"
	}

	if err := validate.Struct(opts); err != nil {
		return opts, &InvalidOptionsError{Err: err}
	}
	return opts, nil
}

// Raw reports whether the upstream body is returned unchanged
func (o Options) Raw() bool {
	return o.Debug || o.ResponseFormat != FormatJSON
}

// SigningParams lists every signable option. The signer drops empty
// values and sorts the rest.
func (o Options) SigningParams() []signer.Param {
	return []signer.Param{
		{Key: signer.KeyAvailability, Value: o.Availability},
		{Key: signer.KeyCompany, Value: o.Company},
		{Key: signer.KeyFormat, Value: o.Format},
		{Key: signer.KeyLimit, Value: o.Limit},
		{Key: signer.KeyOffset, Value: o.Offset},
		{Key: signer.KeyProvider, Value: o.Provider},
		{Key: signer.KeyType, Value: o.Type},
	}
}

// InvalidOptionsError is returned for query values the upstream would reject
type InvalidOptionsError struct {
	Err error
}

func (e *InvalidOptionsError) Error() string {
	var verrs validator.ValidationErrors
	if !errors.As(e.Err, &verrs) {
		return e.Err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s must be a non-negative integer", strings.ToLower(fe.Field())))
	}
	return strings.Join(fields, "; ")
}

func (e *InvalidOptionsError) Unwrap() error {
	return e.Err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
