package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/bootstrap"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
)

// setup builds the router once per execution environment; later
// invocations reuse the adapter.
var setup = sync.OnceValues(func() (*ginadapter.GinLambdaV2, error) {
	app, err := bootstrap.Build(config.Load())
	if err != nil {
		return nil, err
	}
	return ginadapter.NewV2(app.Router), nil
})

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	proxy, err := setup()
	if err != nil {
		log.Printf("bootstrap error: %v", err)
		return errorResponse(http.StatusInternalServerError, "bootstrap failed"), err
	}
	return proxy.ProxyWithContext(ctx, req)
}

func errorResponse(status int, msg string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(handler)
}
