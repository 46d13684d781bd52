package lambda

import (
	"net/url"

	"github.com/aws/aws-lambda-go/events"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method           string              `json:"method"`
	Path             string              `json:"path"`
	Headers          map[string]string   `json:"headers"`
	QueryParams      map[string]string   `json:"query_params"`
	MultiQueryParams map[string][]string `json:"multi_query_params"`
	RequestID        string              `json:"request_id"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// FromAPIGateway converts an API Gateway proxy event
func FromAPIGateway(event events.APIGatewayProxyRequest) *Request {
	return &Request{
		Method:           event.HTTPMethod,
		Path:             event.Path,
		Headers:          event.Headers,
		QueryParams:      event.QueryStringParameters,
		MultiQueryParams: event.MultiValueQueryStringParameters,
		RequestID:        event.RequestContext.RequestID,
	}
}

// Query returns the query parameters as url.Values. Multi-value parameters
// win over the single-value map when both are present.
func (r *Request) Query() url.Values {
	q := url.Values{}
	for key, value := range r.QueryParams {
		q.Set(key, value)
	}
	for key, values := range r.MultiQueryParams {
		q[key] = append([]string(nil), values...)
	}
	return q
}

// ToAPIGateway converts the response for the API Gateway runtime
func (r *Response) ToAPIGateway() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}
