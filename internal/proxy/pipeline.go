// Package proxy wires signer, fetcher and normalizer into the request
// pipeline shared by every endpoint.
package proxy

import (
	"context"

	"github.com/sirupsen/logrus"

	"casagateway-proxy/internal/normalizer"
	"casagateway-proxy/internal/signer"
	"casagateway-proxy/internal/upstream"
)

// ContentTypeXML is used when the upstream does not report a content type
const ContentTypeXML = "application/xml"

// Mode tells the transport how to write a Result
type Mode int

const (
	ModeRaw Mode = iota
	ModeJSON
)

// Result is a successful pipeline outcome
type Result struct {
	Mode        Mode
	ContentType string
	Raw         []byte
	Document    map[string]any
}

// Fetcher retrieves a signed URL
type Fetcher interface {
	Fetch(ctx context.Context, signedURL string) (*upstream.Response, error)
}

// Pipeline runs sign → fetch → normalize for one profile
type Pipeline struct {
	profile    Profile
	signer     *signer.Signer
	fetcher    Fetcher
	normalizer *normalizer.Normalizer
}

// NewPipeline creates a pipeline for profile
func NewPipeline(profile Profile, s *signer.Signer, fetcher Fetcher) *Pipeline {
	return &Pipeline{
		profile:    profile,
		signer:     s,
		fetcher:    fetcher,
		normalizer: profile.Normalizer(),
	}
}

// Profile returns the profile this pipeline serves
func (p *Pipeline) Profile() Profile {
	return p.profile
}

// Run executes the pipeline. Any failure aborts the request; partial
// documents are never returned.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	signed, err := p.signer.Sign(opts.SigningParams())
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(signed.Params))
	for _, param := range signed.Params {
		keys = append(keys, param.Key)
	}
	log := logrus.WithFields(logrus.Fields{
		"profile":   p.profile.Name,
		"params":    keys,
		"timestamp": signed.Timestamp,
	})
	log.Info("Fetching from CASAGATEWAY")

	resp, err := p.fetcher.Fetch(ctx, signed.URL)
	if err != nil {
		log.WithError(err).Warn("Upstream fetch failed")
		return nil, err
	}

	switch {
	case opts.Debug:
		return &Result{Mode: ModeRaw, ContentType: ContentTypeXML, Raw: resp.Body}, nil
	case p.profile.RawOnly || opts.Raw():
		contentType := resp.ContentType
		if contentType == "" {
			contentType = ContentTypeXML
		}
		return &Result{Mode: ModeRaw, ContentType: contentType, Raw: resp.Body}, nil
	}

	doc, err := p.normalizer.Normalize(resp.Body, normalizer.Options{
		FlattenImages:  opts.FlattenImages,
		SimplifyImages: opts.SimplifyImages,
	})
	if err != nil {
		log.WithError(err).Warn("Upstream response could not be parsed")
		return nil, err
	}

	return &Result{Mode: ModeJSON, ContentType: "application/json", Document: doc}, nil
}
