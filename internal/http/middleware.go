package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WalesndWebs/project-prodigyloan/internal/access"
	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/log"
	"github.com/WalesndWebs/project-prodigyloan/internal/metrics"
	"github.com/WalesndWebs/project-prodigyloan/internal/session"
)

const (
	requestIDKey = "X-Request-ID"
	sessionKey   = "session-state"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDKey, id)
		c.Next()
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.InFlight.Inc()
		start := time.Now()
		c.Next()
		metrics.InFlight.Dec()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// RateLimit is a fixed-window per-IP limiter backed by Redis. With no Redis
// configured the limiter is disabled.
func (h *Handler) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Redis == nil || h.RateLimitPerMin <= 0 {
			c.Next()
			return
		}
		key := "rl:" + c.FullPath() + ":" + c.ClientIP()
		n, err := h.Redis.Hit(c.Request.Context(), key)
		if err != nil {
			// fail open: a broken limiter must not lock users out
			log.L().Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if n > int64(h.RateLimitPerMin) {
			metrics.SignInAttempts.WithLabelValues("rate_limited").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// Authenticate resolves the request's session state from the bearer token.
// It never rejects by itself: a missing or bad token yields an anonymous
// state and the route's guard decides what that means.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := session.State{Readiness: session.Anonymous}

		if auth := c.GetHeader("Authorization"); strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			tok := strings.TrimSpace(auth[len("Bearer "):])
			if id, err := h.Provider.ParseAccess(tok); err == nil {
				profile, err := h.Store.ProfileByID(c.Request.Context(), id.ID)
				if err != nil && err != domain.ErrNotFound {
					log.L().Warn("profile lookup failed", zap.String("uid", id.ID), zap.Error(err))
				}
				st = session.Resolved(id, profile)
			}
		}

		c.Set(sessionKey, st)
		c.Next()
	}
}

// Guard evaluates the route's access requirement against the session state
// and translates the decision to HTTP: deny-to-sign-in is 401, deny-to-home
// is 403, both carrying the redirect target.
func (h *Handler) Guard(req access.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := access.Evaluate(currentState(c), req)
		switch d.Kind {
		case access.Allow:
			metrics.AccessDecisions.WithLabelValues("allow").Inc()
			c.Next()
		case access.Deny:
			if d.Redirect == access.SignInPath {
				metrics.AccessDecisions.WithLabelValues("deny_unauthenticated").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					gin.H{"error": "authentication required", "redirect": d.Redirect})
				return
			}
			metrics.AccessDecisions.WithLabelValues("deny_forbidden").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"error": "forbidden", "redirect": d.Redirect})
		default:
			// server-side states are always resolved; pending means a bug
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session not resolved"})
		}
	}
}

func currentState(c *gin.Context) session.State {
	if v, ok := c.Get(sessionKey); ok {
		if st, ok := v.(session.State); ok {
			return st
		}
	}
	return session.State{Readiness: session.Anonymous}
}

func requestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
