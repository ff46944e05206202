package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookline/config"
	appcron "bookline/cron"
	"bookline/database"
	appointmentRepoPkg "bookline/database/repository/appointment"
	conversationRepoPkg "bookline/database/repository/conversation"
	slotRepoPkg "bookline/database/repository/slot"
	userRepoPkg "bookline/database/repository/user"
	"bookline/handlers"
	"bookline/middleware"
	"bookline/routes"
	"bookline/services/booking"
	"bookline/services/call"
	"bookline/services/preferences"
	"bookline/services/summary"
	"bookline/services/tasks"
	"bookline/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitPreferenceCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	appointmentRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	conversationRepo := conversationRepoPkg.NewMongoConversationRepo()

	// services.
	prefStore := preferences.NewRedisStore(
		utils.GetPreferenceCacheClient(),
		time.Duration(config.AppConfig.PreferenceTTLMinutes)*time.Minute,
	)

	var summaryGen summary.Generator
	if config.AppConfig.GeminiAPIKey != "" {
		gen, err := summary.NewGeminiGenerator(config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Sugar().Warnf("main: summary generation disabled: %v", err)
		} else {
			summaryGen = gen
		}
	}

	reminderClient := tasks.NewClient()
	defer reminderClient.Close()

	toolService := booking.NewToolService(
		userRepo,
		slotRepo,
		appointmentRepo,
		conversationRepo,
		prefStore,
		summaryGen,
		reminderClient,
	)
	callManager := call.NewManager(toolService)

	// background workers.
	reminderWorker := tasks.NewReminderWorker(appointmentRepo)
	go func() {
		if err := reminderWorker.Run(); err != nil {
			logger.Sugar().Fatalf("main: reminder worker failed: %v", err)
		}
	}()
	defer reminderWorker.Shutdown()

	expirySweeper := appcron.NewExpirySweeper(appointmentRepo)
	if err := expirySweeper.Start(); err != nil {
		logger.Sugar().Fatalf("main: failed to start expiry sweeper: %v", err)
	}
	defer expirySweeper.Stop()

	// handlers.
	callHandler := handlers.NewCallHandler(callManager)
	slotHandler := handlers.NewSlotHandler(slotRepo)
	conversationHandler := handlers.NewConversationHandler(conversationRepo)

	handlerBundle := &handlers.HandlerBundle{
		StartCallHandler:     callHandler.StartCallHandler,
		GetCallHandler:       callHandler.GetCallHandler,
		EndCallHandler:       callHandler.EndCallHandler,
		ToolCallHandler:      callHandler.ToolCallHandler,
		CallEventsHandler:    callHandler.CallEventsHandler,
		ReportUsageHandler:   callHandler.ReportUsageHandler,
		GetCallRecordHandler: conversationHandler.GetCallRecordHandler,
		CallHistoryHandler:   conversationHandler.CallHistoryHandler,
		AISTTHandler:         callHandler.AISTTHandler,
		CreateSlotsHandler:   slotHandler.CreateSlotsHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
