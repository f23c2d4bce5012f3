package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Freyapa/BT-NESTLE/internal/storage"
)

const (
	maxBodyBytes = 100 << 10 // matches the web UI's tiny JSON payloads

	// Process-wide budget shared across all API routes.
	rateBudget = 100
	ratePerSec = rateBudget / 60.0
)

const userIDKey = "userID"

// Server is the playlist HTTP API consumed by the companion web editor.
type Server struct {
	engine  *gin.Engine
	store   storage.Store
	tokens  *Issuer
	limiter *rate.Limiter
}

func NewServer(store storage.Store, tokens *Issuer) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:  gin.New(),
		store:   store,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), rateBudget),
	}

	s.engine.Use(gin.Recovery())
	s.engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "System Ready.")
	})

	api := s.engine.Group("/api", s.rateLimit, s.bodyLimit, s.auth)
	api.GET("/playlist", s.listPlaylist)
	api.POST("/playlist", s.addEntry)
	api.DELETE("/playlist/:key", s.removeEntry)

	return s
}

// Handler exposes the engine for tests and custom servers.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled; run it in a goroutine. Exit errors are
// logged, never fatal; the bot keeps running without its API.
func (s *Server) Run(ctx context.Context, addr string) {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("api server shutdown")
		}
	}()

	log.Info().Str("addr", addr).Msg("playlist API listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("api server exited")
	}
}

func (s *Server) rateLimit(c *gin.Context) {
	if !s.limiter.Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}
	c.Next()
}

func (s *Server) bodyLimit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	c.Next()
}

// auth verifies the bearer token and attaches the decoded subject. Missing
// token is 401, invalid or expired is 403.
func (s *Server) auth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	userID, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

// listPlaylist returns the caller's entries keyed by entry ID. The user ID
// comes only from the verified token, so cross-user reads are impossible.
func (s *Server) listPlaylist(c *gin.Context) {
	userID := c.GetString(userIDKey)

	entries, err := s.store.ListPlaylist(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make(map[string]storage.PlaylistEntry, len(entries))
	for _, e := range entries {
		out[e.ID] = e
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) addEntry(c *gin.Context) {
	userID := c.GetString(userIDKey)

	var req struct {
		URL   string `json:"url" binding:"required"`
		Title string `json:"title"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	if _, err := s.store.AddPlaylistEntry(userID, req.URL, req.Title); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) removeEntry(c *gin.Context) {
	userID := c.GetString(userIDKey)

	if err := s.store.RemovePlaylistEntry(userID, c.Param("key")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
