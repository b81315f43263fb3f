package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "knowledgevault/internal/app"
	"knowledgevault/internal/bootstrap"
	"knowledgevault/internal/repository"
	"knowledgevault/internal/transport/http/handler"
	"knowledgevault/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	categoryRepo := repository.NewCategoryRepository(app.MySQL)
	docRepo := repository.NewDocumentRepository(app.MySQL)
	chunkRepo := repository.NewDocumentChunkRepository(app.MySQL)
	accessRepo := repository.NewDocumentAccessRepository(app.MySQL)
	favoriteRepo := repository.NewFavoriteRepository(app.MySQL)
	convRepo := repository.NewConversationRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	queryRepo := repository.NewSearchQueryRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	accessService := appsvc.NewAccessService(accessRepo, docRepo, userRepo)
	documentService := appsvc.NewDocumentService(
		docRepo,
		chunkRepo,
		accessRepo,
		favoriteRepo,
		accessService,
		app.IngestSvc,
		app.Publisher,
		app.VectorClient,
		app.QueryCache,
		app.TeamsClient,
	)
	searchService := appsvc.NewSearchService(docRepo, chunkRepo, queryRepo, app.LLMClient, app.QueryCache)
	chatService := appsvc.NewChatService(convRepo, messageRepo, searchService, app.LLMClient)
	statsService := appsvc.NewStatsService(docRepo, categoryRepo, queryRepo, app.QueryCache)

	authHandler := handler.NewAuthHandler(authService)
	documentHandler := handler.NewDocumentHandler(documentService, authService)
	searchHandler := handler.NewSearchHandler(searchService)
	chatHandler := handler.NewChatHandler(chatService)
	adminHandler := handler.NewAdminHandler(accessService, authService)
	statsHandler := handler.NewStatsHandler(statsService)
	vectorHandler := handler.NewVectorHandler(app.VectorClient)
	integrationHandler := handler.NewIntegrationHandler(app.LLMClient, documentService)

	authJWT := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	api := router.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authJWT, authHandler.Me)
	authGroup.PUT("/profile", authJWT, authHandler.UpdateProfile)

	docs := api.Group("/documents")
	docs.Use(authJWT, middleware.RequireAction(appsvc.ActionViewDocuments))
	docs.GET("", documentHandler.List)
	docs.GET("/search", searchHandler.Search)
	docs.GET("/:id", documentHandler.Get)
	docs.POST("/upload", middleware.RequireAction(appsvc.ActionUploadDocs), documentHandler.Upload)
	docs.POST("/:id/endorse", documentHandler.Endorse)
	docs.POST("/:id/favorite", documentHandler.Favorite)
	docs.DELETE("/:id/favorite", documentHandler.Unfavorite)
	docs.DELETE("/:id", documentHandler.Delete)

	conversations := api.Group("/conversations")
	conversations.Use(authJWT)
	conversations.POST("", chatHandler.CreateConversation)
	conversations.GET("", chatHandler.ListConversations)
	conversations.GET("/:id/messages", chatHandler.ListMessages)
	conversations.POST("/:id/messages", chatHandler.SendMessage)
	conversations.DELETE("/:id", chatHandler.DeleteConversation)

	api.GET("/stats", authJWT, statsHandler.Dashboard)
	api.GET("/categories", authJWT, statsHandler.Categories)
	api.GET("/categories/stats", authJWT, statsHandler.CategoryStats)
	api.POST("/translate", authJWT, integrationHandler.Translate)
	api.POST("/teams/import", authJWT, middleware.RequireAction(appsvc.ActionUploadDocs), integrationHandler.ImportTeamsNotes)

	admin := api.Group("/admin")
	admin.Use(authJWT)
	admin.POST("/permissions", middleware.RequireAction(appsvc.ActionManageAccess), adminHandler.GrantPermission)
	admin.GET("/permissions", middleware.RequireAction(appsvc.ActionManageAccess), adminHandler.ListPermissions)
	admin.DELETE("/permissions", middleware.RequireAction(appsvc.ActionManageAccess), adminHandler.RevokePermission)
	admin.GET("/users", middleware.RequireAction(appsvc.ActionManageUsers), adminHandler.ListUsers)
	admin.PATCH("/users/:id/role", middleware.RequireAction(appsvc.ActionManageUsers), adminHandler.UpdateUserRole)

	vectorGroup := api.Group("/vector")
	vectorGroup.Use(authJWT, middleware.RequireAction(appsvc.ActionReindex))
	vectorGroup.POST("/reindex-all", vectorHandler.ReindexAll)
	vectorGroup.GET("/stats", vectorHandler.Stats)

	return router
}
