// Package signer builds signed CASAGATEWAY request URLs.
//
// The upstream authenticates a request by recomputing a digest over the query
// options: every option is sorted by key, rendered as key immediately followed
// by value, then the private key and the millisecond timestamp are appended.
// The lowercase hex SHA-256 of that string travels as the hmac query field.
package signer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Signable query parameter keys
const (
	KeyFormat       = "format"
	KeyCompany      = "company"
	KeyProvider     = "provider"
	KeyLimit        = "limit"
	KeyOffset       = "offset"
	KeyAvailability = "availability"
	KeyType         = "type"
)

var allowedKeys = map[string]bool{
	KeyFormat:       true,
	KeyCompany:      true,
	KeyProvider:     true,
	KeyLimit:        true,
	KeyOffset:       true,
	KeyAvailability: true,
	KeyType:         true,
}

// Param is a single signed query option
type Param struct {
	Key   string
	Value string
}

// Credentials holds the two secrets issued by CASAGATEWAY
type Credentials struct {
	APIKey     string
	PrivateKey string
}

// Validate reports missing secrets as a ConfigurationError
func (c Credentials) Validate() error {
	var missing []string
	if c.PrivateKey == "" {
		missing = append(missing, PrivateKeyEnv)
	}
	if c.APIKey == "" {
		missing = append(missing, APIKeyEnv)
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// SignedRequest is the result of signing a parameter set
type SignedRequest struct {
	URL       string
	Timestamp int64
	Digest    string
	Params    []Param
}

// Signer signs parameter sets against a fixed endpoint
type Signer struct {
	baseURL string
	creds   Credentials
	now     func() time.Time
}

// Option configures a Signer
type Option func(*Signer)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// New creates a new signer for the given endpoint
func New(baseURL string, creds Credentials, opts ...Option) *Signer {
	s := &Signer{
		baseURL: baseURL,
		creds:   creds,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign builds the signed upstream URL. Params with empty values are dropped,
// except format which the upstream always requires.
func (s *Signer) Sign(params []Param) (*SignedRequest, error) {
	if err := s.creds.Validate(); err != nil {
		return nil, err
	}

	collected := make([]Param, 0, len(params))
	for _, p := range params {
		if !allowedKeys[p.Key] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParam, p.Key)
		}
		if p.Value == "" && p.Key != KeyFormat {
			continue
		}
		collected = append(collected, p)
	}

	sorted := SortParams(collected)
	timestamp := s.now().UnixMilli()
	digest := Digest(CanonicalString(sorted, s.creds.PrivateKey, timestamp))

	return &SignedRequest{
		URL:       s.buildURL(sorted, timestamp, digest),
		Timestamp: timestamp,
		Digest:    digest,
		Params:    sorted,
	}, nil
}

func (s *Signer) buildURL(sorted []Param, timestamp int64, digest string) string {
	var b strings.Builder
	b.WriteString(s.baseURL)
	if strings.Contains(s.baseURL, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	writeQuery(&b, "apikey", s.creds.APIKey)
	for _, p := range sorted {
		b.WriteByte('&')
		writeQuery(&b, p.Key, p.Value)
	}
	b.WriteByte('&')
	writeQuery(&b, "timestamp", strconv.FormatInt(timestamp, 10))
	b.WriteByte('&')
	writeQuery(&b, "hmac", digest)
	return b.String()
}

func writeQuery(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}

// SortParams returns a copy of params ordered by key using root-locale
// collation. Equal keys keep their input order.
func SortParams(params []Param) []Param {
	sorted := make([]Param, len(params))
	copy(sorted, params)

	// Collator is not safe for concurrent use, so each call gets its own
	c := collate.New(language.Und)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(sorted[i].Key, sorted[j].Key) < 0
	})
	return sorted
}

// CanonicalString concatenates key and value of each param, then the private
// key and the timestamp, with no separators anywhere.
func CanonicalString(sorted []Param, privateKey string, timestamp int64) string {
	var b strings.Builder
	for _, p := range sorted {
		b.WriteString(p.Key)
		b.WriteString(p.Value)
	}
	b.WriteString(privateKey)
	b.WriteString(strconv.FormatInt(timestamp, 10))
	return b.String()
}

// Digest returns the lowercase hex SHA-256 of the canonical string
func Digest(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
