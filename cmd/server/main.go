package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/polwatch/regime-risk-meter/internal/ensemble"
	"github.com/polwatch/regime-risk-meter/internal/errors"
	"github.com/polwatch/regime-risk-meter/internal/factors"
	"github.com/polwatch/regime-risk-meter/internal/histmatch"
	"github.com/polwatch/regime-risk-meter/internal/history"
	"github.com/polwatch/regime-risk-meter/internal/models"
	"github.com/polwatch/regime-risk-meter/internal/monitoring"
	"github.com/polwatch/regime-risk-meter/internal/ratelimit"
	"github.com/polwatch/regime-risk-meter/internal/reasoning"
	"github.com/polwatch/regime-risk-meter/internal/research"
	"github.com/polwatch/regime-risk-meter/internal/signals"
	"github.com/polwatch/regime-risk-meter/internal/subcache"
	"github.com/polwatch/regime-risk-meter/internal/trends"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	port := getEnvOrDefault("PORT", "8080")
	reasoningModel := getEnvOrDefault("REASONING_MODEL", "")
	reasoningBaseURL := getEnvOrDefault("REASONING_BASE_URL", "")
	trendsAPIURL := os.Getenv("TRENDS_API_URL")

	cacheConfig := subcache.DefaultConfig()
	if v := os.Getenv("CACHE_LIVE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cacheConfig.LiveTTL = d
		}
	}
	if v := os.Getenv("CACHE_QUICK_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cacheConfig.QuickTTL = d
		}
	}

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	researchCache := subcache.New(cacheConfig)
	defer researchCache.Close()

	// Each request carries its own reasoning-service credential, so a fresh
	// client per run rather than a shared one.
	callerFactory := func(credential string) reasoning.Caller {
		opts := []reasoning.Option{
			reasoning.WithPauseHook(appMetrics.IncrementPausedContinuation),
		}
		if reasoningModel != "" {
			opts = append(opts, reasoning.WithModel(reasoningModel))
		}
		if reasoningBaseURL != "" {
			opts = append(opts, reasoning.WithBaseURL(reasoningBaseURL))
		}
		return reasoning.NewClient(credential, opts...)
	}
	orchestrator := research.New(researchCache, appMetrics, appLogger, callerFactory)

	trendsClient := trends.NewClient(trendsAPIURL, appMetrics)

	redisClient := ratelimit.NewRedisClient()
	defer redisClient.Close()
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig(), appMetrics)

	r := newRouter(serverDeps{
		metrics:      appMetrics,
		logger:       appLogger,
		cache:        researchCache,
		orchestrator: orchestrator,
		trendsClient: trendsClient,
		limiter:      limiter,
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// serverDeps bundles the shared services the router needs, so tests can
// build the same routes around fakes.
type serverDeps struct {
	metrics      *monitoring.Metrics
	logger       *monitoring.Logger
	cache        *subcache.Cache
	orchestrator *research.Orchestrator
	trendsClient *trends.Client
	limiter      *ratelimit.RateLimiter
}

func newRouter(d serverDeps) *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Reasoning-Key")
	r.Use(cors.New(corsConfig))

	r.Use(monitoring.Middleware(d.metrics, d.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	r.Use(ratelimit.IPRateLimitMiddleware(d.limiter, d.metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"metrics":   d.metrics.GetStats(),
		})
	})

	r.POST("/research", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
		defer cancel()

		var req researchRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		credential := req.Credential
		if credential == "" {
			credential = c.GetHeader("X-Reasoning-Key")
		}

		merged, err := d.orchestrator.Run(ctx, req.Subject, credential, req.Mode)
		if err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, merged)
	})

	r.POST("/compare", func(c *gin.Context) {
		var req compareRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if len(req.Factors) == 0 {
			appErr := errors.NewValidationError("factors are required")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		selected := models.Select(req.Models)
		if len(selected) == 0 {
			appErr := errors.NewValidationError("no known models in request")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, buildComparison(selected, req.Factors))
	})

	r.POST("/signals/adjust", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		var req signalsRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if len(req.Factors) == 0 {
			appErr := errors.NewValidationError("factors are required")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		// Pull live search interest when the caller named a subject but
		// supplied no trends payload of their own.
		if req.Trends == nil && req.Subject != "" {
			fetched, err := d.trendsClient.Fetch(ctx, req.Subject)
			if err != nil {
				if err != trends.ErrDisabled {
					slog.Warn("Trends fetch failed, adjusting without search interest", "subject", req.Subject, "error", err)
				}
			} else {
				req.Trends = fetched
			}
		}

		adjusted, applied := signals.Synthesize(req.Trends, req.OpEds, req.EliteSignals, req.SocialSentiment, req.Factors)
		c.JSON(http.StatusOK, gin.H{
			"adjusted":     adjusted,
			"appliedRules": applied,
		})
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.metrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.cache.Stats())
	})

	r.GET("/ratelimit/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.limiter.GetStats())
	})

	return r
}

type researchRequest struct {
	Subject    string `json:"subject"`
	Credential string `json:"credential"`
	Mode       string `json:"mode"`
}

type compareRequest struct {
	Factors factors.Vector `json:"factors"`
	Models  []string       `json:"models,omitempty"`
}

type signalsRequest struct {
	Subject         string                  `json:"subject,omitempty"`
	Factors         factors.Vector          `json:"factors"`
	Trends          *signals.Trends         `json:"trends,omitempty"`
	OpEds           *signals.OpEdAnalysis   `json:"opEds,omitempty"`
	EliteSignals    *signals.EliteSignals   `json:"eliteSignals,omitempty"`
	SocialSentiment *signals.SocialSentiment `json:"socialSentiment,omitempty"`
}

type modelAnalysis struct {
	Score      ensemble.ModelScore  `json:"score"`
	Historical histmatch.Prediction `json:"historical"`
}

type citedCase struct {
	Case      history.Case `json:"case"`
	Citations int          `json:"citations"`
}

// buildComparison runs the full ensemble plus a per-model historical
// prediction viewed through that model's weights.
func buildComparison(selected []models.Model, fv factors.Vector) gin.H {
	result := ensemble.Score(selected, fv)

	analyses := make([]modelAnalysis, 0, len(result.Scores))
	citations := make(map[string]int)
	for _, ms := range result.Scores {
		pred := histmatch.Predict(history.All, fv, ms.Model.Weights)
		for _, m := range pred.MostSimilarCases {
			citations[m.Case.ID]++
		}
		analyses = append(analyses, modelAnalysis{Score: ms, Historical: pred})
	}

	return gin.H{
		"models": analyses,
		"consensus": gin.H{
			"mean":            result.Mean,
			"stdDev":          result.StdDev,
			"riskLevel":       factors.RiskLevel(result.Mean),
			"probabilityBand": factors.ProbabilityBand(result.Mean),
			"clusters":        result.Clusters,
			"outliers":        outlierIDs(result.Scores),
		},
		"mostCitedCases": mostCited(citations),
	}
}

func outlierIDs(scores []ensemble.ModelScore) []string {
	out := make([]string, 0)
	for _, ms := range scores {
		if ms.IsOutlier {
			out = append(out, ms.Model.ID)
		}
	}
	return out
}

func mostCited(citations map[string]int) []citedCase {
	out := make([]citedCase, 0, len(citations))
	for _, c := range history.All {
		if n, ok := citations[c.ID]; ok {
			out = append(out, citedCase{Case: c, Citations: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Citations != out[j].Citations {
			return out[i].Citations > out[j].Citations
		}
		return strings.Compare(out[i].Case.ID, out[j].Case.ID) < 0
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
