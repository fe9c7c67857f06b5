// Package httpapi serves the calculators, the catalog tables and the
// medication tracker over JSON.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/vitalcalc/internal/cache"
	"github.com/Skufu/vitalcalc/internal/catalog"
	"github.com/Skufu/vitalcalc/internal/medication"
	"github.com/Skufu/vitalcalc/internal/registry"
)

const maxBodyBytes = 1 << 20

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Deps wires the router. Limiter and Cache may be nil.
type Deps struct {
	Registry    *registry.Registry
	Catalog     *catalog.Holder
	Tracker     *medication.Tracker
	Cache       cache.Cache
	CacheTTL    time.Duration
	Limiter     *RateLimiter
	Checks      map[string]HealthChecker
	CORSOrigins []string
	Logger      *zap.Logger
	Now         func() time.Time
}

type server struct {
	Deps
}

func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s := &server{Deps: d}

	router := gin.New()
	router.Use(
		requestLogger(d.Logger),
		gin.Recovery(),
		limitBodySize(maxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", s.ready)

	api := router.Group("/api")
	if d.Limiter != nil {
		api.Use(rateLimit(d.Limiter))
	}
	api.GET("/calculators", s.listCalculators)
	api.POST("/calculators/:name", s.evalCalculator)
	api.GET("/catalog/:table", s.catalogTable)

	meds := api.Group("/medications")
	meds.GET("", s.listMedications)
	meds.POST("", s.addMedication)
	meds.DELETE("/:id", s.removeMedication)
	meds.POST("/:id/logs", s.recordDose)
	meds.GET("/schedule", s.schedule)
	meds.GET("/adherence", s.adherence)

	return router
}

func (s *server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok"}
	for name, hc := range s.Checks {
		if err := hc.Ping(ctx); err != nil {
			body[name] = fmt.Sprintf("unhealthy: %v", err)
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		body[name] = "ok"
	}
	c.JSON(status, body)
}
