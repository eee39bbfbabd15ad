package connection

import (
	"context"
	"log"

	taskcontroller "tasklist/controller/task"
	"tasklist/middleware"
	"tasklist/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func StartServer() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s task store: %v", cfg.Store, err)
	}
	defer closeStore()

	router := NewRouter(cfg, services.NewTaskService(store))

	log.Printf("tasklist listening on :%s (store=%s)", cfg.Port, cfg.Store)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

// OpenStore builds the task store selected by cfg.Store. The returned
// func releases its connections.
func OpenStore(ctx context.Context, cfg *Config) (services.TaskStore, func(), error) {
	switch cfg.Store {
	case StoreFirestore:
		fb, err := FBConnection(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return services.NewFirestoreStore(fb, cfg.FirestoreCollection), func() { fb.Close() }, nil
	case StorePostgres:
		pool, err := PGConnection(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store := services.NewPgStore(pool)
		if err := store.EnsureTable(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return services.NewMemoryStore(), func() {}, nil
	}
}

// NewRouter wires middleware and task routes. The task routes require a
// bearer token when cfg.JWTSecret is set.
func NewRouter(cfg *Config, svc *services.TaskService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	var guards []gin.HandlerFunc
	if cfg.JWTSecret != "" {
		guards = append(guards, middleware.AccessTokenMiddleware([]byte(cfg.JWTSecret)))
	}
	taskcontroller.TaskController(router, svc, guards...)

	return router
}
