package lambda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"casagateway-proxy/internal/config"
)

func TestFromAPIGateway(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:                      "GET",
		Path:                            "/api/properties",
		QueryStringParameters:           map[string]string{"company": "acme", "limit": "5"},
		MultiValueQueryStringParameters: map[string][]string{"limit": {"5", "10"}},
		RequestContext:                  events.APIGatewayProxyRequestContext{RequestID: "req-1"},
	}

	req := FromAPIGateway(event)
	if req.Method != "GET" || req.Path != "/api/properties" || req.RequestID != "req-1" {
		t.Errorf("Unexpected request %+v", req)
	}

	q := req.Query()
	if q.Get("company") != "acme" {
		t.Errorf("Expected company acme, got %q", q.Get("company"))
	}
	if got := q["limit"]; len(got) != 2 || got[0] != "5" {
		t.Errorf("Expected multi-value limit, got %v", got)
	}
}

func TestResponseToAPIGateway(t *testing.T) {
	resp := &Response{StatusCode: 200, Headers: map[string]string{"Content-Type": "application/xml"}, Body: []byte("<x/>")}
	out := resp.ToAPIGateway()
	if out.StatusCode != 200 || out.Body != "<x/>" || out.Headers["Content-Type"] != "application/xml" {
		t.Errorf("Unexpected API Gateway response %+v", out)
	}
}

func TestContainerManager(t *testing.T) {
	loads := 0
	cm := NewContainerManager(func() (*config.Config, error) {
		loads++
		return &config.Config{
			Environment: "test",
			Port:        "8080",
			Upstream: config.UpstreamConfig{
				BaseURL:       config.DefaultUpstreamURL,
				DefaultFormat: "swissrets:2.7",
				Timeout:       time.Second,
				MaxBodyBytes:  1024,
			},
			Logging: config.LoggingConfig{Level: "info", Format: "text"},
		}, nil
	})

	first, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	second, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	if first != second {
		t.Error("Expected the container to be reused")
	}
	if loads != 1 {
		t.Errorf("Expected config to load once, got %d", loads)
	}

	if err := cm.Cleanup(); err != nil {
		t.Errorf("Cleanup failed: %v", err)
	}
	if _, err := cm.GetContainer(context.Background()); err != nil {
		t.Fatalf("GetContainer after cleanup failed: %v", err)
	}
	if loads != 2 {
		t.Errorf("Expected config to reload after cleanup, got %d loads", loads)
	}
}

func TestContainerManagerLoadError(t *testing.T) {
	attempts := 0
	cm := NewContainerManager(func() (*config.Config, error) {
		attempts++
		return nil, errors.New("bad config")
	})

	for i := 0; i < 2; i++ {
		if _, err := cm.GetContainer(context.Background()); err == nil {
			t.Fatal("Expected load error")
		}
	}
	if attempts != 2 {
		t.Errorf("Failed loads must not be cached, got %d attempts", attempts)
	}
}
