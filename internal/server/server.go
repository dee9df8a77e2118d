package server

import (
	"backend-looply/internal/auth"
	"backend-looply/internal/config"
	"backend-looply/internal/feed"
	"backend-looply/internal/post"
	"backend-looply/internal/relationship"
	"backend-looply/internal/share"
	"backend-looply/internal/suggest"
	"backend-looply/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	users := user.NewDirectory(s.DB, s.Redis)
	resolver := relationship.NewResolver(s.DB)

	posts := s.App.Group("/posts")
	post.RegisterRoutes(posts, post.NewService(s.DB, users), jwtMiddleware)
	share.RegisterRoutes(posts, share.NewService(s.DB, users), jwtMiddleware)
	feed.RegisterRoutes(s.App.Group("/feed"), feed.NewService(s.DB, users), jwtMiddleware)
	relationship.RegisterRoutes(s.App.Group("/relationships"), relationship.NewService(s.DB, users), resolver, jwtMiddleware)
	suggest.RegisterRoutes(s.App.Group("/suggestions"), suggest.NewService(users, resolver), jwtMiddleware)
}
