package main

import (
	"chat-ranking-service/internal/config"

	chatHttp "chat-ranking-service/internal/chat/adapters/http/fiber"
	chatBridge "chat-ranking-service/internal/chat/adapters/wsbridge"
	chatUsecase "chat-ranking-service/internal/chat/core/usecase"

	rankingHttp "chat-ranking-service/internal/ranking/adapters/http/fiber"
	"chat-ranking-service/internal/ranking/core/cache"
	"chat-ranking-service/internal/ranking/core/ports"
	rankingUsecase "chat-ranking-service/internal/ranking/core/usecase"
	"chat-ranking-service/internal/ranking/core/window"

	"github.com/coder/quartz"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

type service struct {
	app      *fiber.App
	counters *cache.CounterCache
	bridge   *chatBridge.Bridge
}

func newService(cfg *config.Config, store ports.GroupStorePort, clk quartz.Clock, logger zerolog.Logger) (*service, error) {
	windowClock, err := window.NewClockForZone(clk, cfg.Ranking.Timezone)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("timezone", windowClock.Location().String()).Msg("ranking windows configured")

	counters := cache.New(store, logger,
		cache.WithClock(clk),
		cache.WithFlushInterval(cfg.Ranking.FlushInterval),
		cache.WithRequeueFailedSaves(cfg.Ranking.RequeueFailedSaves),
	)

	// Usecases
	recordUC := rankingUsecase.NewRecordActivityUseCase(counters, windowClock)
	leaderboardUC := rankingUsecase.NewGetLeaderboardUseCase(counters, windowClock, cfg.Ranking.TopN)
	rankUC := rankingUsecase.NewGetUserRankUseCase(counters, windowClock)
	handleMessageUC := chatUsecase.NewHandleMessageUseCase(recordUC, leaderboardUC, rankUC, cfg.Chat.CommandPrefix, logger)

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	rankingHttp.NewRankingHandler(leaderboardUC, rankUC, recordUC, counters).Register(app)
	chatHttp.NewMessageHandler(handleMessageUC).Register(app)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	svc := &service{app: app, counters: counters}
	if cfg.Chat.BridgeURL != "" {
		svc.bridge = chatBridge.NewBridge(cfg.Chat.BridgeURL, handleMessageUC, logger,
			chatBridge.WithClock(clk),
			chatBridge.WithRetryDelay(cfg.Chat.BridgeRetryDelay),
		)
	}
	return svc, nil
}
