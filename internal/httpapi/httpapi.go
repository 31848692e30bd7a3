package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/service"
	"storepos/backend/internal/store"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	allowedOrigin string
	logger        *zap.Logger
	loginLimiter  *attemptLimiter
}

func New(svc *service.Service, auth *AuthManager, allowedOrigin string, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &API{
		service:       svc,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		logger:        logger,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
	}
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	r := gin.New()
	r.Use(a.recovery(), a.accessLog(), a.cors())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "POS Server Online.")
	})
	r.GET("/healthz", a.handleHealth)

	api := r.Group("/api")

	inventory := api.Group("/inventory")
	inventory.GET("/", textHandler("Inventory API"))
	inventory.GET("/products", a.handleListProducts)
	inventory.GET("/product/:id", a.handleGetProduct)
	inventory.POST("/product", a.handleUpsertProduct)
	inventory.POST("/product/sku", a.handleProductBySKU)
	inventory.DELETE("/product/:id", a.handleDeleteProduct)
	inventory.POST("/decrement", a.handleDecrement)

	transactions := api.Group("/transactions")
	transactions.GET("/", textHandler("Transactions API"))
	transactions.GET("/all", a.handleListTransactions)
	transactions.GET("/on-hold", a.handleListOnHold)
	transactions.GET("/customer-orders", a.handleListCustomerOrders)
	transactions.GET("/by-date", a.handleTransactionsByDate)
	transactions.GET("/export.csv", a.handleExportTransactions)
	transactions.POST("/new", a.handleCreateTransaction)
	transactions.PUT("/new", a.handleUpdateTransaction)
	transactions.POST("/delete", a.handleDeleteTransaction)
	transactions.GET("/:id", a.handleGetTransaction)

	statistics := api.Group("/statistics")
	statistics.GET("/", textHandler("Statistics API"))
	statistics.GET("/sales", a.handleListStatistics)
	statistics.GET("/sales-by-date", a.handleStatisticsByDate)
	statistics.POST("/new", a.handleCreateStatistic)
	statistics.PUT("/update", a.handleUpdateStatistic)
	statistics.POST("/delete", a.handleDeleteStatistic)
	statistics.GET("/:id", a.handleGetStatistic)

	customers := api.Group("/customers")
	customers.GET("/", textHandler("Customer API"))
	customers.GET("/all", a.handleListCustomers)
	customers.GET("/customer/:id", a.handleGetCustomer)
	customers.POST("/customer", a.handleCreateCustomer)
	customers.PUT("/customer", a.handleUpdateCustomer)
	customers.DELETE("/customer/:id", a.handleDeleteCustomer)

	categories := api.Group("/categories")
	categories.GET("/", textHandler("Category API"))
	categories.GET("/all", a.handleListCategories)
	categories.POST("/category", a.handleCreateCategory)
	categories.PUT("/category", a.handleUpdateCategory)
	categories.DELETE("/category/:id", a.handleDeleteCategory)

	settings := api.Group("/settings")
	settings.GET("/", textHandler("Settings API"))
	settings.GET("/get", a.handleGetSettings)
	settings.POST("/post", a.requirePermission(domain.PermSettings), a.handleSaveSettings)

	users := api.Group("/users")
	users.GET("/", textHandler("Users API"))
	users.POST("/login", a.handleLogin)
	users.GET("/logout/:id", a.handleLogout)
	users.GET("/check", a.handleCheck)
	users.GET("/all", a.requirePermission(domain.PermUsers), a.handleListUsers)
	users.GET("/user/:id", a.requirePermission(domain.PermUsers), a.handleGetUser)
	users.DELETE("/user/:id", a.requirePermission(domain.PermUsers), a.handleDeleteUser)
	users.POST("/post", a.requirePermission(domain.PermUsers), a.handleSaveUser)

	return r
}

// requirePermission is a no-op while auth is disabled.
func (a *API) requirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.auth.Enabled() {
			c.Next()
			return
		}

		authorization := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			a.writeError(c, http.StatusUnauthorized, errors.New("missing bearer token"))
			c.Abort()
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(token)
		if err != nil {
			a.writeError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if !actor.Has(perm) {
			a.writeError(c, http.StatusForbidden, errors.New("missing permission: "+perm))
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func (a *API) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Access-Control-Allow-Origin", a.allowedOrigin)
		h.Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
		h.Set("Access-Control-Allow-Methods", "GET,PUT,POST,DELETE,OPTIONS")
		h.Set("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (a *API) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		c.Next()
		a.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(startedAt)),
		)
	}
}

func (a *API) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		a.logger.Error("handler panicked", zap.Any("panic", rec), zap.String("path", c.Request.URL.Path))
		a.writeError(c, http.StatusInternalServerError, errors.New("panic"))
		c.Abort()
	})
}

func (a *API) handleHealth(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func textHandler(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) fail(c *gin.Context, err error) {
	a.writeError(c, statusFor(err), err)
}

func (a *API) writeError(c *gin.Context, status int, err error) {
	// 5xx bodies stay generic; the detail goes to the log.
	msg := err.Error()
	if status >= 500 {
		a.logger.Error("internal error", zap.Int("status", status), zap.String("path", c.Request.URL.Path), zap.Error(err))
		msg = "internal server error"
	}
	writeJSON(c, status, gin.H{
		"error": msg,
	})
}

func writeJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// writeOK mirrors the plain "OK" body older clients expect after an update.
func writeOK(c *gin.Context) {
	c.String(http.StatusOK, http.StatusText(http.StatusOK))
}

func writeEmpty(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{})
}

func parseID(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("id field is required")
	}
	return id, nil
}

// bindValues reads a JSON object or a url-encoded / multipart form into one
// loosely typed map. Older desktop builds post forms, newer ones JSON.
func bindValues(c *gin.Context) (map[string]any, error) {
	contentType := strings.ToLower(c.ContentType())
	if contentType == "" || strings.Contains(contentType, "json") {
		raw := map[string]any{}
		if err := json.NewDecoder(c.Request.Body).Decode(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	if strings.HasPrefix(contentType, "multipart/") {
		if err := c.Request.ParseMultipartForm(8 << 20); err != nil {
			return nil, err
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}

	raw := make(map[string]any, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw, nil
}

// firstOf returns the value of the first key present in raw.
func firstOf(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			return v
		}
	}
	return nil
}
