package server

import (
	"fmt"

	"casagateway-proxy/internal/config"
	"casagateway-proxy/internal/proxy"
	"casagateway-proxy/internal/signer"
	"casagateway-proxy/internal/upstream"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	Properties  *proxy.Pipeline
	Debug       *proxy.Pipeline
	PageBuilder *proxy.Pipeline

	// Internal dependencies
	upstream *upstream.Client
}

// NewContainer creates a new dependency injection container. Missing
// secrets do not fail here; every request reports them instead.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	client := upstream.NewClient(upstream.Config{
		Timeout:      cfg.Upstream.Timeout,
		MaxBodyBytes: cfg.Upstream.MaxBodyBytes,
	})
	s := signer.New(cfg.Upstream.BaseURL, cfg.Upstream.Credentials())

	return &Container{
		Config:      cfg,
		Properties:  proxy.NewPipeline(proxy.PropertiesProfile(), s, client),
		Debug:       proxy.NewPipeline(proxy.DebugProfile(), s, client),
		PageBuilder: proxy.NewPipeline(proxy.PageBuilderProfile(cfg.Upstream.FallbackProvider), s, client),
		upstream:    client,
	}, nil
}

// Pipelines returns every pipeline keyed by profile name
func (c *Container) Pipelines() map[string]*proxy.Pipeline {
	return map[string]*proxy.Pipeline{
		proxy.ProfileProperties:  c.Properties,
		proxy.ProfileDebug:       c.Debug,
		proxy.ProfilePageBuilder: c.PageBuilder,
	}
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.upstream != nil {
		if err := c.upstream.Close(); err != nil {
			return fmt.Errorf("failed to close upstream client: %w", err)
		}
	}
	return nil
}
