package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/akormos/alert-trading/src/eventconsumers"
	"github.com/akormos/alert-trading/src/eventmodels"
	"github.com/akormos/alert-trading/src/eventproducers"
	"github.com/akormos/alert-trading/src/eventproducers/discord"
	pubsub "github.com/akormos/alert-trading/src/eventpubsub"
	"github.com/akormos/alert-trading/src/eventservices"
	"github.com/akormos/alert-trading/src/utils"
)

func loadPipelineConfig() *eventmodels.PipelineYAML {
	path := os.Getenv("PIPELINE_CONFIG")
	if path == "" {
		log.Info("PIPELINE_CONFIG not set, using default pipeline settings")
		return eventmodels.NewDefaultPipelineYAML()
	}

	config, err := eventmodels.LoadPipelineYAML(path)
	if err != nil {
		log.Fatalf("failed to load pipeline config: %v", err)
	}

	return config
}

func requireEnv(name string) string {
	value := os.Getenv(name)
	if value == "" {
		log.Fatalf("$%s not set", name)
	}

	return value
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// setup environment
	if err := utils.InitEnvironmentVariables(); err != nil {
		log.Fatalf("failed to init environment variables: %v", err)
	}

	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(log.DebugLevel)
	}

	config := loadPipelineConfig()

	// setup pubsub
	pubsub.Init()

	// setup collaborators
	broker := eventservices.NewBrokerAPIClient(
		requireEnv("BROKER_API_URL"),
		requireEnv("BROKER_STREAM_URL"),
		requireEnv("BROKER_API_TOKEN"),
		requireEnv("BROKER_ACCOUNT_ID"),
	)

	completion, err := eventservices.NewCompletionClient(ctx, requireEnv("OPENAI_API_KEY"), config.CompletionModel, config.CompletionMaxRetries)
	if err != nil {
		log.Fatalf("failed to create completion client: %v", err)
	}

	ocr := eventservices.NewOCRClient(requireEnv("OCR_SERVICE_URL"), os.Getenv("OCR_SERVICE_TOKEN"))

	webhookURL := requireEnv("DISCORD_WEBHOOK_URL")

	// setup execution queue
	queue := eventmodels.NewFIFOQueue[*eventmodels.TradeIntent]("execution", config.ExecutionQueueSize)

	// setup router
	router := mux.NewRouter()
	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "3000"
	}

	// setup producers and consumers
	wg := sync.WaitGroup{}

	resolver := eventconsumers.NewIntentResolver(completion, config)
	dedup := eventconsumers.NewDeduplicator(config.DedupWindow())
	engine := eventconsumers.NewExecutionEngine(broker, config)

	eventproducers.NewDiscordClient(&wg, router, discord.NewMessageHandler(ocr, config)).Start(ctx)
	eventconsumers.NewTradeIntentWorker(&wg, resolver, dedup, queue).Start(ctx)
	eventconsumers.NewTradeExecutionWorker(&wg, queue, engine).Start(ctx)
	eventconsumers.NewPositionMonitorWorker(&wg, broker, config).Start(ctx)
	eventconsumers.NewNotifierWorker(&wg, webhookURL).Start(ctx)

	// start the http server
	srv := &http.Server{
		Handler: router,
		Addr:    fmt.Sprintf(":%s", port),
	}

	go func() {
		log.Infof("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil {
			if err.Error() != "http: Server closed" {
				log.Fatalf("http: failed to listen and serve: %v", err)
			}
		}
	}()

	// Create channel for shutdown signals.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	<-stop
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down server %s", err)
	} else {
		log.Println("Server gracefully stopped")
	}

	wg.Wait()
}
