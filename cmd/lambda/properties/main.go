package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"casagateway-proxy/internal/config"
	"casagateway-proxy/internal/handlers"
	"casagateway-proxy/pkg/lambda"
)

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req := lambda.FromAPIGateway(event)

	if req.Method == http.MethodOptions {
		return handlers.HandleOptions().ToAPIGateway(), nil
	}

	container, err := lambda.GetContainerManager().GetContainer(ctx)
	if err != nil {
		logrus.WithFields(config.GetServerlessConfig().LogFields()).
			WithError(err).WithField("request_id", req.RequestID).
			Error("Failed to initialize container")
		return handlers.HandleInternalError(req.RequestID, "Service is not configured").ToAPIGateway(), nil
	}

	router := handlers.NewLambdaRouter(handlers.NewRouterConfig(container))
	resp, err := router.Dispatch(ctx, req)
	if err != nil {
		logrus.WithError(err).WithField("request_id", req.RequestID).Error("Failed to build response")
		return handlers.HandleInternalError(req.RequestID, "Failed to build response").ToAPIGateway(), nil
	}

	return resp.ToAPIGateway(), nil
}

func main() {
	awslambda.Start(handler)
}
