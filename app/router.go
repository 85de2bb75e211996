// Package app wires the HTTP surface together
package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"pagebin/html-api/app/file"
	"pagebin/html-api/app/root"
	"pagebin/html-api/app/user"
	"pagebin/html-api/db"
	"pagebin/html-api/internal"
	"pagebin/html-api/internal/service"
	"pagebin/html-api/internal/store"
	"pagebin/html-api/pkg/middleware"
	"pagebin/html-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cacheStore = persist.NewMemoryStore(time.Minute)

// NewDeps builds the dependency handle handed to every handler. The
// database connection is owned here and injected everywhere else.
func NewDeps() (*internal.Deps, error) {
	d, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	views := store.NewViews(d)

	deps := &internal.Deps{
		DB:    d,
		Argon: security.New(),
		Users: store.NewUsers(d),
		Views: views,
		Files: store.NewFiles(d, views,
			viper.GetInt64("upload.max_size"),
			viper.GetInt64("upload.max_urls")),
		URLs:   store.NewURLs(d),
		Codes:  store.NewCodes(d),
		Mailer: service.NewMailer(),
	}

	deps.Mailer.StartWorkerPool()

	return deps, nil
}

func NewRouter(d *internal.Deps) *gin.Engine {
	router := gin.New()

	origins := strings.Split(os.Getenv("HOST_CORS"), ",")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "X-Views"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("user_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(d.DB)
	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
		CleanupInterval:   time.Second,
	})

	maxUploadSize := viper.GetInt64("upload.max_size")

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates a JWT token
		m.GET("/validate", jwt, root.Validate)
	}

	u := m.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users		-> Returns the user's profile and files
		u.GET("", jwt, func(c *gin.Context) { user.UserFetch(c, d) })

		// POST /api/users		-> Registers a new user
		u.POST("", func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/users/login	-> Logs in a user and returns a JWT token
		u.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/users/verify	-> Verifies a new user
		u.POST("/verify", func(c *gin.Context) { user.UserVerify(c, d) })

		// POST /api/users/verify/resend -> Issues a fresh verification code
		u.POST("/verify/resend", func(c *gin.Context) { user.UserResendVerification(c, d) })

		// POST /api/users/reset	-> Requests a password reset code
		u.POST("/reset", func(c *gin.Context) { user.UserResetRequest(c, d) })

		// PUT /api/users/reset		-> Consumes a reset code and sets a new password
		u.PUT("/reset", func(c *gin.Context) { user.UserReset(c, d) })
	}

	f := m.Group("/files")
	{
		// GET /api/files/bulk		-> Returns the caller's files in bulk
		f.GET("/bulk", jwt, func(c *gin.Context) { file.FileList(c, d) })

		// GET /api/files/:url		-> Serves a document and counts the view
		f.GET("/:url", func(c *gin.Context) { file.FileServe(c, d) })

		// GET /api/files/:url/views	-> Returns the view tally for a URL
		f.GET("/:url/views", cacheFor(15), func(c *gin.Context) { file.FileViews(c, d) })

		// POST /api/files		-> Uploads a new document
		f.POST("", jwt, middleware.BodySizeLimiter(maxUploadSize+(1<<20)), func(c *gin.Context) { file.FileUpload(c, d) })

		// PATCH /api/files/:url	-> Updates a document owned by the caller
		f.PATCH("/:url", jwt, middleware.BodySizeLimiter(maxUploadSize+(1<<20)), func(c *gin.Context) { file.FileUpdate(c, d) })

		// DELETE /api/files/:url	-> Deletes a document owned by the caller
		f.DELETE("/:url", jwt, func(c *gin.Context) { file.FileDelete(c, d) })
	}

	return router
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
}
