package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medicall/config"
	"medicall/cron"
	"medicall/database"
	appointmentRepo "medicall/database/repository/appointment"
	availabilityRepo "medicall/database/repository/availability"
	chatRepo "medicall/database/repository/chat"
	sessionRepo "medicall/database/repository/session"
	userRepoPkg "medicall/database/repository/user"
	"medicall/handlers"
	"medicall/middleware"
	"medicall/relay"
	"medicall/routes"
	"medicall/services/chat"
	"medicall/services/scheduling"
	"medicall/services/tasks"
	"medicall/services/video"
	"medicall/utils"

	"github.com/gin-gonic/gin"
)

type indexEnsurer interface {
	EnsureIndexes() error
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	windowRepo := availabilityRepo.NewMongoAvailabilityRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	sessRepo := sessionRepo.NewMongoSessionRepo()
	messagesRepo := chatRepo.NewMongoChatRepo()

	for _, repo := range []any{userRepo, windowRepo, apptRepo, sessRepo, messagesRepo} {
		if ie, ok := repo.(indexEnsurer); ok {
			if err := ie.EnsureIndexes(); err != nil {
				logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
			}
		}
	}

	// Services.
	reminderScheduler := tasks.NewReminderScheduler()
	defer reminderScheduler.Close()

	schedulingService := &scheduling.DefaultSchedulingService{
		Users:        userRepo,
		Windows:      windowRepo,
		Appointments: apptRepo,
		Sessions:     sessRepo,
		Video:        video.NewFromConfig(),
		Reminders:    reminderScheduler,
	}

	chatBridge := chat.NewBridge(messagesRepo)
	hub := relay.NewHub(chatBridge)

	// Reminder worker runs alongside the HTTP server.
	go cron.InitReminderWorker(apptRepo)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	handlerBundle := &routes.HandlerBundle{
		Scheduling: handlers.NewSchedulingHandler(schedulingService, utils.GetCacheClient()),
		Chat:       handlers.NewChatHandler(chatBridge),
		Relay:      handlers.NewRelayHandler(hub),
		Hub:        hub,
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
