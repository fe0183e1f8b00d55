// Package http is the JSON API: transactions, analytics, settings,
// categories and chat, with rate limiting, caching and security headers.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"catty/internal/cache"
	"catty/internal/core"
	applog "catty/internal/log"
	"catty/internal/middleware/ratelimit"
	"catty/internal/middleware/security"
	"catty/internal/middleware/trace"
	"catty/internal/services"
)

// chatReplier is what the server needs from the chat layer.
type chatReplier interface {
	Reply(ctx context.Context, spendingContext, userMessage string) string
}

type Server struct {
	http.Server

	transactions *services.TransactionService
	settings     *services.SettingsService
	categories   *services.CategoryService
	chat         chatReplier

	ipExtractor *security.IPExtractor
	rateLimiter *ratelimit.Limiter

	summaryCache  *cache.LRUCache[summaryResponse]
	activityCache *cache.LRUCache[activityResponse]
	cacheManager  *cache.Manager

	// now is swappable in tests.
	now func() time.Time

	shutdownOnce sync.Once
}

type Deps struct {
	Transactions *services.TransactionService
	Settings     *services.SettingsService
	Categories   *services.CategoryService
	Chat         chatReplier
	Logger       *applog.Logger
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		transactions: deps.Transactions,
		settings:     deps.Settings,
		categories:   deps.Categories,
		chat:         deps.Chat,
		ipExtractor:  security.NewIPExtractor(),
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),

		summaryCache:  cache.NewLRUCache[summaryResponse](100, 5*time.Minute),
		activityCache: cache.NewLRUCache[activityResponse](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),

		now: time.Now,
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.activityCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/analytics/summary", s.handleSummary)
	mux.HandleFunc("GET /api/analytics/activity", s.handleActivity)
	mux.HandleFunc("GET /api/analytics/months", s.handleMonths)
	mux.HandleFunc("GET /api/analytics/moods", s.handleMoods)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleAddCategory)
	mux.HandleFunc("DELETE /api/categories/{name}", s.handleRemoveCategory)
	mux.HandleFunc("PUT /api/categories/{name}", s.handleRenameCategory)

	mux.HandleFunc("POST /api/chat", s.handleChat)

	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.ipExtractor.ClientIP, logger)

	handler := s.rateLimitMutations(mux)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)
	handler = applog.Middleware(logger)(handler)
	s.Server.Handler = handler

	return s
}

// rateLimitMutations applies the per-IP limiter to writes only; reads are
// served from cache and stay cheap.
func (s *Server) rateLimitMutations(next http.Handler) http.Handler {
	limited := s.rateLimiter.Middleware(s.ipExtractor.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (s *Server) today() core.Date {
	return core.DateOf(s.now())
}

// invalidateAllDerived drops every cached analytics response. A write can
// land in any month via its date string, so targeted invalidation would have
// to parse the date again; purging is cheap at this cache size.
func (s *Server) invalidateAllDerived() {
	s.summaryCache.Purge()
	s.activityCache.Purge()
}

func cacheKey(year int, month time.Month) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(int(month))
}

// Shutdown stops the background goroutines along with the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
