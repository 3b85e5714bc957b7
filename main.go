package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"texhub/api/errs"
	"texhub/api/types"
	"texhub/controllers"
	"texhub/models"
	"texhub/services"
)

func ZLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		status := c.Writer.Status()

		if len(c.Errors) != 0 {
			err := c.Errors.Last().Err
			log.Error().Err(err).Msg("")

			if !c.Writer.Written() {
				mapped := false
				for knownErr, statusCode := range errs.ErrStatusMap {
					if errors.Is(err, knownErr) {
						c.AbortWithStatusJSON(statusCode, types.Response{
							Status:  "error",
							Message: knownErr.Error(),
						})
						mapped = true
						break
					}
				}
				if !mapped {
					c.AbortWithStatusJSON(http.StatusInternalServerError, types.Response{
						Status:  "error",
						Message: "internal error",
					})
				}
			}
		}
		log.Debug().
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	gin.DefaultWriter = zerolog.ConsoleWriter{Out: os.Stdout}

	router := gin.New()
	router.Use(ZLogMiddleware(), gin.Recovery())

	models.ConnectDatabase(envOr("DB_PATH", "texhub.db"))

	store, err := services.NewMinioStoreFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init blob store")
	}
	controllers.Setup(
		store,
		services.NewCompileCache(store),
		services.NewCompilerClientFromEnv(),
		services.NewUploader(store),
	)

	// Projects
	router.POST("/projects", controllers.ProjectCreate)
	router.GET("/projects", controllers.ProjectList)
	router.GET("/projects/:id", controllers.ProjectGet)
	router.PATCH("/projects/:id", controllers.ProjectUpdate)
	router.DELETE("/projects/:id", controllers.ProjectDelete)
	router.PUT("/projects/:id/entrypoint", controllers.ProjectSetEntrypoint)

	// Files
	router.GET("/projects/:id/files", controllers.FileList)
	router.POST("/projects/:id/files", controllers.FileCreate)
	router.POST("/projects/:id/directories", controllers.DirectoryCreate)
	router.PATCH("/files/:id/content", controllers.FileUpdateContent)
	router.PATCH("/files/:id/name", controllers.FileRename)
	router.DELETE("/files/:id", controllers.FileDelete)

	// Uploads & compilation
	router.POST("/projects/:id/uploads", controllers.ProjectUpload)
	router.POST("/projects/:id/compile", controllers.ProjectCompile)

	// Sharing
	router.GET("/projects/:id/members", controllers.MemberList)
	router.DELETE("/members/:id", controllers.MemberDelete)
	router.POST("/projects/:id/invites", controllers.InviteCreate)
	router.GET("/projects/:id/invites", controllers.InviteList)
	router.DELETE("/invites/:id", controllers.InviteDelete)
	router.POST("/session/resolve-invites", controllers.SessionResolveInvites)

	if err := router.Run(envOr("LISTEN_ADDR", ":8080")); err != nil {
		log.Fatal().Err(err).Msg("app failed to start")
	}
}
