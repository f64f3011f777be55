package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	_ "time/tzdata" // Lambda's provided runtimes ship no zoneinfo

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"healthlog-webhook/internal/config"
	"healthlog-webhook/internal/handler"
	"healthlog-webhook/internal/secrets"
	"healthlog-webhook/internal/sheet"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-h", "--h", "--help":
			showHelp()
			return
		case "-e", "--event":
			if len(os.Args) < 3 {
				fmt.Println("Usage: healthlog-webhook --event <event.json>")
				os.Exit(1)
			}
			_ = godotenv.Load(".env")
			runLocal(os.Args[2])
			return
		}
	}

	logger := newLogger()
	defer logger.Sync()

	ctx := context.Background()
	h, err := newHandler(ctx, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	lambda.Start(h.Handle)
}

func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// newHandler does the cold-start wiring: config, credentials, store.
func newHandler(ctx context.Context, logger *zap.Logger) (*handler.Handler, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("configuring: %w", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("handler ready",
		zap.String("storage", cfg.Storage),
		zap.String("sheet", cfg.SheetName))
	return handler.New(store, cfg.Location, logger), nil
}

func newStore(ctx context.Context, cfg *config.Config) (sheet.RowStore, error) {
	if cfg.Storage == config.StorageLocal {
		return sheet.NewFileStore(cfg.LocalPath), nil
	}

	saJSON, err := secrets.ServiceAccountJSON(ctx, cfg.SecretID)
	if err != nil {
		return nil, err
	}
	jwt, err := google.JWTConfigFromJSON(saJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return sheet.NewSheetsStore(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// runLocal feeds one event file through the handler without the Lambda
// runtime and prints the envelope.
func runLocal(path string) {
	logger := newLogger()
	defer logger.Sync()

	ctx := context.Background()
	h, err := newHandler(ctx, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring handler: %v\n", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading event file: %v\n", err)
		os.Exit(1)
	}

	env, err := h.Handle(ctx, json.RawMessage(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error handling event: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding envelope: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func showHelp() {
	fmt.Println("Health-log webhook upsert service")
	fmt.Println("\nUsage:")
	fmt.Println("  healthlog-webhook                  Run as an AWS Lambda handler")
	fmt.Println("  healthlog-webhook -e <event.json>  Run one invocation locally")
	fmt.Println("  healthlog-webhook --help           Show this help message")
	fmt.Println("\nStorage backends:")
	fmt.Println("  Default: Google Sheets")
	fmt.Println("  Local CSV override: set HEALTHLOG_STORAGE=local")
	fmt.Println("\nEnvironment:")
	fmt.Println("  SHEET_ID=<spreadsheet-id>          (required for Sheets)")
	fmt.Println("  SECRET_ID=<secrets-manager-id>     (required for Sheets)")
	fmt.Println("  RANGE_NAME=<tab-name>              (optional, default: Daily Tracker)")
	fmt.Println("  HEALTHLOG_TZ=<iana-zone>           (optional, default: America/Los_Angeles)")
	fmt.Println("  HEALTHLOG_LOCAL_PATH=<csv-path>    (optional, local backend file)")
	fmt.Println("\nExamples:")
	fmt.Println("  healthlog-webhook -e testdata/event.json")
	fmt.Println("  HEALTHLOG_STORAGE=local healthlog-webhook -e event.json")
}
