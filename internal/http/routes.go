package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jobdropo/messages-service/internal/security"
)

func NewRouter(h *Handler, jwks *security.Fetcher, ratePerMin int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	var rl *RateLimiter
	if ratePerMin > 0 {
		rl = NewRateLimiter(ratePerMin, time.Minute)
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		n := api.Group("/nachrichten")
		{
			n.GET("/threads", AuthJWT(jwks), h.ListThreads)
			n.GET("", AuthJWT(jwks), h.ListNachrichten)
			n.POST("", AuthJWT(jwks), RateLimit(rl), h.SendNachricht)
			n.POST("/archive", AuthJWT(jwks), h.ArchiveThread)
			n.POST("/trash", AuthJWT(jwks), h.TrashThread)
			n.POST("/restore", AuthJWT(jwks), h.RestoreThread)
			n.POST("/purge", AuthJWT(jwks), h.PurgeThread)
			n.GET("/count", AuthJWT(jwks), h.UnreadCount)
		}

		api.POST("/auftraege", AuthJWT(jwks), h.CreateAuftrag)
		api.GET("/auftraege", AuthJWT(jwks), h.ListAuftraege)
		api.GET("/auftraege/:id", AuthJWT(jwks), h.GetAuftrag)
		api.PATCH("/auftraege/:id/status", AuthJWT(jwks), h.UpdateAuftragStatus)
		api.GET("/angebote", AuthJWT(jwks), h.ListAngebote)
		api.POST("/angebote", AuthJWT(jwks), RateLimit(rl), h.SubmitAngebot)
	}
	return r
}
