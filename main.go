package main

import (
	"net/http"

	"university-library/config"
	"university-library/initializers"
	"university-library/internals/controllers"
	"university-library/internals/middleware"
	"university-library/internals/repository"
	"university-library/internals/service"
	logger "university-library/loggers"

	"github.com/gin-gonic/gin"
)

func main() {
	initializers.LoadEnvVariables()
	logger.Init()
	logger.Logger.Info("welcome to university library")

	cfg := config.Load()

	db, err := initializers.ConnectDatabase(cfg.DatabaseDSN)
	if err != nil {
		logger.Logger.Fatal("failed to connect to database: ", err)
	}
	if err := initializers.SyncDatabase(db); err != nil {
		logger.Logger.Fatal("failed to sync database: ", err)
	}

	redisClient, err := initializers.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Logger.Fatal("failed to connect to redis: ", err)
	}

	users := repository.NewUserRepository(db)
	books := repository.NewBookRepository(db)
	borrows := repository.NewBorrowRepository(db)

	var notifier service.Notifier = service.NoopNotifier{}
	if cfg.OnboardingWebhook != "" {
		notifier = service.NewWebhookNotifier(cfg.OnboardingWebhook)
	}

	limiter := service.NewRedisRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow)
	credentials := service.NewRedisCredentialCache(redisClient)
	authService := service.NewAuthService(users, credentials, limiter, notifier)
	borrowService := service.NewBorrowService(db, users, books, borrows)
	mediaService := service.NewMediaService(cfg.MediaPublicKey, cfg.MediaPrivateKey, cfg.MediaUploadEndpoint)

	tokens := middleware.NewTokenManager(middleware.NewRedisTokenStore(redisClient), cfg.AccessSecret, cfg.RefreshSecret)
	authenticator := middleware.NewAuthenticator(tokens, users)

	authController := controllers.NewAuthController(authService, tokens)
	booksController := controllers.NewBooksController(books)
	borrowController := controllers.NewBorrowController(borrowService, users)
	mediaController := controllers.NewMediaController(mediaService)

	r := gin.Default()
	r.GET("/", hello)

	r.POST("/signup", authController.SignUp)
	r.POST("/signin", authController.SignIn)

	r.GET("/books", booksController.GetAll)
	r.GET("/books/:id", booksController.GetByID)

	protected := r.Group("/api")
	protected.Use(authenticator.Authenticate)
	{
		protected.POST("/books/:id/borrow", borrowController.Borrow)
		protected.POST("/books/:id/return", borrowController.Return)
		protected.GET("/my/borrows", borrowController.History)
		protected.GET("/media/auth", mediaController.UploadAuth)
		protected.POST("/media/upload", mediaController.Upload)
	}

	admin := r.Group("/admin")
	admin.Use(authenticator.Authenticate, authenticator.RequireAdmin)
	{
		admin.POST("/books", booksController.Create)
		admin.PUT("/books/:id", booksController.Update)
		admin.DELETE("/books/:id", booksController.Delete)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Logger.Fatal("server stopped: ", err)
	}
}

func hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "welcome to university library",
	})
}
