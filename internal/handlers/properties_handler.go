package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"casagateway-proxy/internal/middleware"
	"casagateway-proxy/internal/proxy"
	"casagateway-proxy/pkg/lambda"
)

// PropertiesHandler serves one pipeline over gin and Lambda
type PropertiesHandler struct {
	pipeline      *proxy.Pipeline
	defaultFormat string
}

// NewPropertiesHandler creates a new properties handler
func NewPropertiesHandler(pipeline *proxy.Pipeline, defaultFormat string) *PropertiesHandler {
	return &PropertiesHandler{
		pipeline:      pipeline,
		defaultFormat: defaultFormat,
	}
}

// @Summary List properties
// @Description Fetch listings from CASAGATEWAY. JSON by default, raw SwissRETS XML with responseFormat=xml or debug=true.
// @Tags properties
// @Produce json
// @Produce xml
// @Param format query string false "SwissRETS format" default(swissrets:2.7)
// @Param company query string false "Company slug"
// @Param limit query int false "Maximum number of listings"
// @Param offset query int false "Listings to skip"
// @Param availability query string false "Availability filter"
// @Param type query string false "Listing type filter"
// @Param responseFormat query string false "json or xml" default(json)
// @Param debug query bool false "Return the raw upstream XML"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /properties [get]
func (h *PropertiesHandler) GetProperties(c *gin.Context) {
	requestID := c.GetString(middleware.RequestIDKey)

	result, err := h.run(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		status, resp := newErrorResponse(err, h.pipeline.Profile().Name, requestID)
		c.JSON(status, resp)
		return
	}

	if result.Mode == proxy.ModeRaw {
		c.Data(http.StatusOK, result.ContentType, result.Raw)
		return
	}
	c.JSON(http.StatusOK, result.Document)
}

// HandleGet handles property requests for Lambda
func (h *PropertiesHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	result, err := h.run(ctx, req.Query())
	if err != nil {
		status, resp := newErrorResponse(err, h.pipeline.Profile().Name, req.RequestID)
		return jsonResponse(status, resp)
	}

	if result.Mode == proxy.ModeRaw {
		return &lambda.Response{
			StatusCode: http.StatusOK,
			Headers:    responseHeaders(result.ContentType),
			Body:       result.Raw,
		}, nil
	}
	return jsonResponse(http.StatusOK, result.Document)
}

func (h *PropertiesHandler) run(ctx context.Context, q url.Values) (*proxy.Result, error) {
	opts, err := proxy.ParseOptions(q, h.pipeline.Profile(), h.defaultFormat)
	if err != nil {
		return nil, err
	}
	return h.pipeline.Run(ctx, opts)
}

// HandleOptions answers CORS preflight requests for Lambda
func HandleOptions() *lambda.Response {
	return &lambda.Response{
		StatusCode: http.StatusOK,
		Headers:    responseHeaders(""),
	}
}

// HandleInternalError is the Lambda reply when no handler could produce a
// response. It carries the same CORS headers as every other reply.
func HandleInternalError(requestID, message string) *lambda.Response {
	body, err := json.Marshal(ErrorResponse{
		Envelope:  proxy.Envelope{Error: "Internal server error", Message: message},
		RequestID: requestID,
	})
	if err != nil {
		body = []byte(`{"error":"Internal server error"}`)
	}
	return &lambda.Response{
		StatusCode: http.StatusInternalServerError,
		Headers:    responseHeaders("application/json"),
		Body:       body,
	}
}

func jsonResponse(status int, v any) (*lambda.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &lambda.Response{
		StatusCode: status,
		Headers:    responseHeaders("application/json"),
		Body:       body,
	}, nil
}

func responseHeaders(contentType string) map[string]string {
	headers := make(map[string]string, len(middleware.CORSHeaders)+1)
	for name, value := range middleware.CORSHeaders {
		headers[name] = value
	}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return headers
}
