package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"resume-match/analyzer"
	"resume-match/config"
	"resume-match/extract"
	"resume-match/infrastructure"
	"resume-match/interfaces"
	"resume-match/report"
	"resume-match/repository"
	"resume-match/worker"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	db, err := infrastructure.NewMySQLConnection(cfg.Database.DSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MySQL")
	}

	rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	ctx := context.Background()

	cache, err := infrastructure.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to Redis")
	}
	if err := cache.Ping(ctx); err != nil {
		log.WithError(err).Fatal("failed to reach Redis")
	}

	uploader, err := infrastructure.NewS3Uploader(ctx, cfg.S3.Bucket, cfg.S3.Region)
	if err != nil {
		log.WithError(err).Fatal("failed to configure S3")
	}

	repo := repository.New(db)
	az := analyzer.New(openai.NewClient(cfg.OpenAI.APIKey), cfg.OpenAI.Model, cfg.OpenAI.MaxAttempts, log)
	extractor := extract.New(cfg.Worker.TempDir, log)
	renderer := report.NewPDFRenderer()

	w := worker.New(repo, az, extractor, uploader, rmq, renderer,
		cache, cfg.Worker.ClaimTTL, cfg.Worker.TempDir, log)

	err = rmq.ConsumeAnalysisTasks(func(task infrastructure.AnalysisTask) {
		if err := w.Run(ctx, task.JobMatchID); err != nil {
			log.WithError(err).WithField("job_match_id", task.JobMatchID).Error("analysis task failed")
		}
	})
	if err != nil {
		log.WithError(err).Fatal("failed to start consumer")
	}

	router := gin.Default()
	interfaces.NewHTTPHandler(router, repo, w, extractor, cache, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.WithField("addr", addr).Info("server starting")
	if err := router.Run(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
