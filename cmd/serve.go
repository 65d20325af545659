package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/server"
	"github.com/spigell/resume-screener/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the screening HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config.Serve == nil {
		config.Serve = &ServeConfig{}
	}
	addr := config.Serve.Addr
	if addr == "" {
		addr = ":8080"
	}

	logger.Info("starting the resume-screener api", zap.String("version", version), zap.String("addr", addr))

	recognizer, summarizer, err := newCollaborators(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai collaborators", zap.Error(err))
	}

	extractor := extract.New(logger)
	screener := screening.New(extractor, screening.Options{
		Recognizer:  recognizer,
		Concurrency: config.Concurrency,
		Logger:      logger,
	})

	srv := server.New(screener, store.NewMemory[*screening.Outcome](), server.Options{
		DefaultJob:     config.Job,
		Summarizer:     summarizer,
		AllowedOrigins: config.Serve.AllowedOrigins,
		MaxUploadBytes: int64(config.Serve.MaxUploadMB) << 20,
		Logger:         logger,
	})

	if err := srv.Run(ctx, addr); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}
