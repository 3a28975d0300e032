package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nemonet1337/hanbaiGoDashboard/internal/config"
	"github.com/nemonet1337/hanbaiGoDashboard/pkg/dashboard"
	"github.com/nemonet1337/hanbaiGoDashboard/pkg/dashboard/storage"
)

func main() {
	// ログ設定
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("ログ初期化に失敗しました:", err)
	}
	defer logger.Sync()

	// 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("設定読み込みに失敗しました", zap.Error(err))
	}

	// データベース接続
	store, err := storage.NewPostgreSQLStorage(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer store.Close()

	// 集計キャッシュ（任意）
	var cache *storage.SummaryCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		cache = storage.NewSummaryCache(client, time.Duration(cfg.Redis.SummaryCacheTTL), logger)
		logger.Info("集計キャッシュを有効化しました", zap.String("addr", cfg.Redis.Addr))
	}

	// ダッシュボードサービス初期化
	dashboardConfig := &dashboard.Config{
		RecentOrderWindow:     time.Duration(cfg.Dashboard.RecentOrderWindowHours) * time.Hour,
		OperatingExpenseRatio: decimal.NewFromFloat(cfg.Dashboard.OperatingExpenseRatio),
		Thresholds: dashboard.StockThresholds{
			Overstock:  cfg.Dashboard.OverstockThreshold,
			Understock: cfg.Dashboard.UnderstockThreshold,
		},
		Pricing: dashboard.PricingRules{
			HighStock: cfg.Dashboard.PricingHighStock,
			LowStock:  cfg.Dashboard.PricingLowStock,
			SlowSales: cfg.Dashboard.PricingSlowSales,
			FastSales: cfg.Dashboard.PricingFastSales,
		},
	}

	manager := dashboard.NewService(store, logger, dashboardConfig, nil)

	// ライブアクティビティフィード開始
	feedCtx, feedCancel := context.WithCancel(context.Background())
	defer feedCancel()

	feed := dashboard.NewLiveActivityFeed(time.Duration(cfg.Dashboard.LiveActivityInterval), logger)
	feed.Start(feedCtx)
	defer feed.Stop()

	// HTTPハンドラー設定
	handlers := NewHandlers(manager, cache, feed, logger)
	router := setupRouter(handlers, cfg.API)

	// HTTPサーバー設定
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.API.ReadTimeout),
		WriteTimeout: time.Duration(cfg.API.WriteTimeout),
		IdleTimeout:  time.Duration(cfg.API.IdleTimeout),
	}

	// グレースフルシャットダウン設定
	go func() {
		logger.Info("ダッシュボードAPIサーバーを開始します", zap.Int("port", cfg.API.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー開始に失敗しました", zap.Error(err))
		}
	}()

	// シャットダウンシグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	// フィード停止
	feed.Stop()

	// グレースフルシャットダウン
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンに失敗しました", zap.Error(err))
	}

	logger.Info("サーバーが正常に停止しました")
}

// setupRouter sets up HTTP routes
// HTTPルートを設定
func setupRouter(handlers *Handlers, apiCfg config.APIConfig) *mux.Router {
	router := mux.NewRouter()

	// ヘルスチェック
	router.HandleFunc("/health", handlers.HealthCheck).Methods("GET")

	// Prometheusメトリクス
	if apiCfg.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// API v1ルート
	api := router.PathPrefix("/api/v1").Subrouter()

	// 参照データ
	api.HandleFunc("/regions", handlers.ListRegions).Methods("GET")
	api.HandleFunc("/locations", handlers.ListLocations).Methods("GET")
	api.HandleFunc("/suppliers", handlers.ListSuppliers).Methods("GET")
	api.HandleFunc("/products", handlers.ListProducts).Methods("GET")

	// 絞り込み可能なコレクション
	api.HandleFunc("/inventory", handlers.GetInventory).Methods("GET")
	api.HandleFunc("/sales", handlers.GetSales).Methods("GET")
	api.HandleFunc("/orders", handlers.GetOrders).Methods("GET")

	// 書き込み操作
	api.HandleFunc("/sales", handlers.CreateSale).Methods("POST")
	api.HandleFunc("/orders", handlers.CreateOrder).Methods("POST")
	api.HandleFunc("/inventory", handlers.UpdateInventory).Methods("PUT")

	// 派生分析
	api.HandleFunc("/dashboard/summary", handlers.GetSummary).Methods("GET")
	api.HandleFunc("/pricing/recommendations", handlers.GetPriceRecommendations).Methods("GET")
	api.HandleFunc("/demand/events", handlers.GetDemandEvents).Methods("GET")
	api.HandleFunc("/activity/live", handlers.GetLiveActivity).Methods("GET")

	// CORS設定（開発用）
	if apiCfg.EnableCORS {
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

				if r.Method == "OPTIONS" {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	// メトリクス収集
	if apiCfg.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	// ログ機能
	router.Use(loggingMiddleware(handlers.logger))

	return router
}

// loggingMiddleware logs HTTP requests
// HTTPリクエストをログ出力するミドルウェア
func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// リクエスト処理
			next.ServeHTTP(w, r)

			// ログ出力
			logger.Info("HTTPリクエスト",
				zap.String("method", r.Method),
				zap.String("url", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
