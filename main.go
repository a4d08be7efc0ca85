package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"codeforge/internal/cache"
	"codeforge/internal/db"
	"codeforge/internal/handlers"
	"codeforge/internal/middleware"
	"codeforge/internal/observability"
	"codeforge/internal/rabbitmq"
	"codeforge/internal/storage"
	"codeforge/internal/telemetry"
	"codeforge/internal/ws"
)

func main() {
	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, "codeforge", getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""))
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(
		getEnv("RABBITMQ_URL", ""),
		getEnv("RABBITMQ_EXCHANGE", "codeforge.events"),
	)
	observability.SetPublisher(publisher)
	log.Printf("event publisher mode: %s", rabbitmq.Mode(publisher))

	store, err := buildStorage()
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}

	var chatCache *cache.ChatCache
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
		})
		chatCache = cache.NewChat(client, time.Minute)
		log.Printf("chat cache enabled via redis at %s", addr)
	}

	registry := ws.NewRegistry()
	wsRouter := ws.NewRouter(registry)
	collabWS := ws.NewCollabHandler(registry, wsRouter)

	userHandler := handlers.NewUserHandler(store)
	projectHandler := handlers.NewProjectHandler(store)
	fileHandler := handlers.NewFileHandler(store, wsRouter)
	chatHandler := handlers.NewChatHandler(store, chatCache)
	collabHandler := handlers.NewCollaboratorHandler(store)
	terminalHandler := handlers.NewTerminalHandler(wsRouter)
	analysisHandler := handlers.NewAnalysisHandler(store)
	gitHandler := handlers.NewGitHandler(wsRouter)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("codeforge"))
	router.Use(observability.HTTPMetricsMiddleware())

	identity := middleware.Identity(store)

	api := router.Group("/api")
	{
		api.POST("/users", userHandler.CreateUser)
		api.GET("/users/me", identity, userHandler.GetCurrentUser)

		api.GET("/projects", identity, projectHandler.ListProjects)
		api.POST("/projects", identity, projectHandler.CreateProject)
		api.GET("/projects/:project_id", identity, projectHandler.GetProject)
		api.PUT("/projects/:project_id", identity, projectHandler.UpdateProject)
		api.DELETE("/projects/:project_id", identity, projectHandler.DeleteProject)

		api.GET("/projects/:project_id/files", identity, fileHandler.ListFiles)
		api.POST("/projects/:project_id/files", identity, fileHandler.CreateFile)
		api.POST("/projects/:project_id/files/batch", identity, fileHandler.BatchFiles)
		api.GET("/files/:file_id", identity, fileHandler.GetFile)
		api.PUT("/files/:file_id", identity, fileHandler.UpdateFile)
		api.DELETE("/files/:file_id", identity, fileHandler.DeleteFile)

		api.GET("/projects/:project_id/chat", identity, chatHandler.GetChatMessages)
		api.POST("/projects/:project_id/chat", identity, chatHandler.PostChatMessage)

		api.GET("/projects/:project_id/collaborators", identity, collabHandler.ListCollaborators)
		api.POST("/projects/:project_id/collaborators", identity, collabHandler.AddCollaborator)
		api.DELETE("/projects/:project_id/collaborators/:user_id", identity, collabHandler.RemoveCollaborator)

		api.POST("/projects/:project_id/terminal", identity, terminalHandler.Execute)
		api.POST("/projects/:project_id/analyze", identity, analysisHandler.Analyze)
		api.POST("/projects/:project_id/git/:operation", identity, gitHandler.Execute)
	}

	router.GET("/ws", collabWS.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildStorage picks a backend from the environment: a GitHub repository
// when a token and repo are set, SQL when a DSN is set, otherwise the
// in-memory store.
func buildStorage() (storage.Storage, error) {
	if token, repo := getEnv("GITHUB_TOKEN", ""), getEnv("GITHUB_REPO", ""); token != "" && repo != "" {
		log.Printf("using github-backed storage in repo %s", repo)
		return storage.NewGitHub(storage.GitHubConfig{
			Token: token,
			Owner: getEnv("GITHUB_OWNER", ""),
			Repo:  repo,
		}), nil
	}

	if dsn := getEnv("DB_DSN", ""); dsn != "" {
		driver := getEnv("DB_DRIVER", "postgres")
		database, err := db.Connect(driver, dsn)
		if err != nil {
			return nil, err
		}
		log.Printf("using %s storage", driver)
		return storage.NewSQL(database), nil
	}

	log.Println("using in-memory storage")
	return storage.NewMemory(), nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
