package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/handler"
	"github.com/ComePicard/Cooloc/internal/infrastructure/cache"
	"github.com/ComePicard/Cooloc/internal/infrastructure/database"
	"github.com/ComePicard/Cooloc/internal/infrastructure/mq"
	"github.com/ComePicard/Cooloc/internal/invite"
	"github.com/ComePicard/Cooloc/internal/job"
	"github.com/ComePicard/Cooloc/internal/service"
)

func main() {
	cfg := config.LoadConfig("config/config.yaml")

	db := database.InitMySQL(&cfg.MySQL)

	redisClient := cache.InitRedis(&cfg.Redis)

	mq.InitKafka(&cfg.Kafka)
	defer mq.CloseKafka()

	registry := invite.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxSender := job.NewOutboxSender(db, cfg)
	go outboxSender.Start(ctx)

	inviteSweeper := job.NewInviteSweeper(registry, cfg)
	go inviteSweeper.Start(ctx)

	h := handler.NewHandler(db, redisClient, registry, cfg)
	userService := service.NewUserService(db)
	router := handler.SetupRouter(h, userService, cfg)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("server listening on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	log.Println("server stopped")
}
