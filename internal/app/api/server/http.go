package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/docs"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/api/handlers"
	mw "github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/api/middleware"
	entsvc "github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/entitlement"
	paymentsvc "github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/payment"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/statistics"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/webhook"
	cfgpkg "github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/config"
	metrics "github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, cfg *cfgpkg.Config, proc *webhook.Processor, payments *paymentsvc.Service, ent *entsvc.Service, stats *statistics.Service) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Gateway webhooks authenticate by signature, not session
	webhooks := r.Group("/webhooks")
	webhooks.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterWebhookRoutes(webhooks, proc, cfg)

	// Checkout APIs called by the web tier
	apiV1Payment := r.Group("/api/v1/payment")
	apiV1Payment.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterPaymentRoutes(apiV1Payment, payments)

	// Dashboard APIs require an authenticated session
	apiV1Dashboard := r.Group("/api/v1/dashboard")
	apiV1Dashboard.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.SessionAuthMiddleware(cfg))
	handlers.RegisterDashboardRoutes(apiV1Dashboard, ent)

	// Admin payment APIs
	apiV1Admin := r.Group("/api/v1/admin")
	apiV1Admin.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterAdminPaymentRoutes(apiV1Admin, payments, stats)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
