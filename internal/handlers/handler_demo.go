package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/cropdoctor/cropdoctor-backend/internal/core/ports/services"
	"github.com/cropdoctor/cropdoctor-backend/internal/middleware"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
)

// registerDemoRoutes mirrors the core image routes on an unauthenticated
// group. The demo middleware injects the shared seeded identity, so the
// handlers themselves are the exact same ones used on the authenticated
// surface and every record lands under the demo account.
func registerDemoRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewImageHandler(services.Image, cfg)

	demo := r.Group("/api/v1/demo", middleware.DemoUser(cfg.DemoUserID))
	{
		demo.POST("/upload", h.Upload)
		demo.GET("/user-images", h.ListUserImages)
		demo.GET("/stats/diseases", h.DiseaseStats)
	}
}
