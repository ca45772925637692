package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/fx"

	"blobs-proxy/internal/app"
	"blobs-proxy/internal/config"
	"blobs-proxy/internal/lambda"
	"blobs-proxy/internal/metrics"
)

// Set by goreleaser ldflags.
var version = "dev"

// lambdaCLI adds the gateway payload format to the shared flags.
type lambdaCLI struct {
	config.CLI `embed:""`

	PayloadVersion string `name:"payload-version" help:"API Gateway payload format: 1.0 (REST API) or 2.0 (HTTP API, function URL)." env:"AURORE_LAMBDA_PAYLOAD_VERSION" enum:"1.0,2.0" default:"1.0"`
}

func main() {
	var cli lambdaCLI
	kong.Parse(&cli,
		kong.Name("blobs-proxy-lambda"),
		kong.Description("Lambda relay for the Netlify blobs API; configured from the environment."),
		kong.Vars{"version": version},
	)

	var adapter *lambda.Adapter
	fxApp := fx.New(
		app.Core,
		fx.Supply(&cli.CLI),
		fx.Provide(
			func() *metrics.Metrics { return nil },
			lambda.NewAdapter,
		),
		fx.Populate(&adapter),
		fx.NopLogger,
	)
	if err := fxApp.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cli.PayloadVersion == "2.0" {
		awslambda.Start(adapter.HandleV2)
		return
	}
	awslambda.Start(adapter.Handle)
}
