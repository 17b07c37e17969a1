package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/qa-board/internal/config"
	"github.com/iliyamo/qa-board/internal/database"
	"github.com/iliyamo/qa-board/internal/handler"
	"github.com/iliyamo/qa-board/internal/hub"
	"github.com/iliyamo/qa-board/internal/middleware"
	"github.com/iliyamo/qa-board/internal/queue"
	"github.com/iliyamo/qa-board/internal/repository"
	"github.com/iliyamo/qa-board/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	questions := repository.NewQuestionRepo(db)
	answers := repository.NewAnswerRepo(db)

	h := hub.New()

	auth := handler.NewAuthHandler(cfg, users)
	mod := handler.NewModerationHandler(cfg, questions, answers)
	qh := handler.NewQuestionHandler(cfg, questions, h)
	ah := handler.NewAnswerHandler(cfg, questions, answers, h)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, mod, cfg.JWTSecret)
	router.RegisterBoard(e, qh, ah, cfg.JWTSecret, cache)
	router.RegisterWS(e, h)

	if cfg.EventMirror {
		go func() {
			if err := queue.StartBoardConsumer(); err != nil {
				log.Printf("board consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
