package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/conexia/flowlens/pkg/classifier"
	"github.com/conexia/flowlens/pkg/cmd"
	"github.com/conexia/flowlens/pkg/config"
	"github.com/conexia/flowlens/pkg/extractor"
	"github.com/conexia/flowlens/pkg/log"
	"github.com/conexia/flowlens/pkg/n8n"
	"github.com/conexia/flowlens/pkg/otelhelper"
	"github.com/conexia/flowlens/pkg/services"
	"github.com/conexia/flowlens/pkg/web"
)

const defaultPort = 9092

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "flowlens-api",
		Usage:                 "Monitor chat workflow executions and conversations",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "n8n-api-url",
				Usage:    "Base URL of the workflow platform API",
				Required: true,
				Sources:  cli.EnvVars("N8N_API_URL"),
			},
			&cli.StringFlag{
				Name:     "n8n-api-key",
				Usage:    "API key for the workflow platform",
				Required: true,
				Sources:  cli.EnvVars("N8N_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "workflow-id",
				Usage:   "Default workflow to scope execution history to",
				Sources: cli.EnvVars("N8N_WORKFLOW_ID"),
			},
			&cli.StringFlag{
				Name:    "openai-api-url",
				Usage:   "Base URL of the classification service",
				Value:   "https://api.openai.com/v1",
				Sources: cli.EnvVars("OPENAI_API_URL"),
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "API key for the classification service",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-model",
				Usage:   "Model used for conversation classification",
				Sources: cli.EnvVars("OPENAI_MODEL"),
			},
			&cli.StringFlag{
				Name:    "analysis-store-url",
				Usage:   "Analysis store URL (file://, redis:// or postgres://)",
				Value:   "file://./data/analyses",
				Sources: cli.EnvVars("ANALYSIS_STORE_URL"),
			},
			&cli.StringFlag{
				Name:    "extractor-config",
				Usage:   "Path to the YAML file overriding extraction node names",
				Sources: cli.EnvVars("EXTRACTOR_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "auth-username",
				Usage:   "Dashboard login username",
				Value:   "admin",
				Sources: cli.EnvVars("AUTH_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "auth-password",
				Usage:   "Dashboard login password",
				Value:   "admin",
				Sources: cli.EnvVars("AUTH_PASSWORD"),
			},
			&cli.BoolFlag{
				Name:    "secure-cookies",
				Usage:   "Mark the session cookie as secure",
				Sources: cli.EnvVars("SECURE_COOKIES"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces via OTLP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing FlowLens API")

			var tracer trace.Tracer
			if command.Bool("tracing") {
				var err error

				tracer, err = otelhelper.NewTracer(ctx, "flowlens-api")
				if err != nil {
					logger.WarnContext(ctx, "Failed to initialize tracing", "error", err)
					tracer = otel.Tracer("flowlens-api")
				}
			} else {
				tracer = otel.Tracer("flowlens-api")
			}

			store, err := cmd.NewAnalysisStore(ctx, logger, command.String("analysis-store-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close analysis store", "error", err)
				}
			}()

			extractorConfig := config.LoadExtractorConfigOrDefault(command.String("extractor-config"))

			client := n8n.NewClient(command.String("n8n-api-url"), command.String("n8n-api-key"), logger)
			ext := extractor.New(extractorConfig, logger)

			executionsService := services.NewExecutions(client, ext, tracer, logger)
			analysisService := services.NewAnalysis(
				classifier.NewOpenAI(
					command.String("openai-api-url"),
					command.String("openai-api-key"),
					command.String("openai-model"),
					logger,
				),
				store,
				logger,
			)

			auth := web.NewAuth(
				command.String("auth-username"),
				command.String("auth-password"),
				command.Bool("secure-cookies"),
			)

			api := NewAPI(
				logger,
				executionsService,
				analysisService,
				auth,
				command.String("workflow-id"),
			)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
