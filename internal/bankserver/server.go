package bankserver

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/timu/internal/bank"
)

// BankHandler serves bank documents from a file system so remote
// clients can point their bank source at this server.
type BankHandler struct {
	fsys fs.FS
	log  *zap.Logger
}

func NewBankHandler(fsys fs.FS, log *zap.Logger) *BankHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BankHandler{fsys: fsys, log: log}
}

// ListBanks returns the names of every bank document.
func (h *BankHandler) ListBanks(c *gin.Context) {
	entries, err := fs.ReadDir(h.fsys, ".")
	if err != nil {
		h.log.Error("list banks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list banks"})
		return
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && servable(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	c.JSON(http.StatusOK, gin.H{"banks": names})
}

// GetBank returns one bank document verbatim.
func (h *BankHandler) GetBank(c *gin.Context) {
	name := c.Param("file")
	if !servable(name) || !fs.ValidPath(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "bank not found"})
		return
	}
	data, err := fs.ReadFile(h.fsys, name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "bank not found"})
		return
	}
	contentType := "application/json; charset=utf-8"
	if bank.FormatFor(name) == bank.FormatYAML {
		contentType = "application/yaml; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, data)
}

func servable(name string) bool {
	switch path.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// RequestLogger logs each request through zap.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// NewRouter wires the bank routes:
//
//	GET /healthz
//	GET /banks
//	GET /banks/:file
func NewRouter(fsys fs.FS, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	h := NewBankHandler(fsys, log)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/banks", h.ListBanks)
	r.GET("/banks/:file", h.GetBank)
	return r
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("bank server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("bank server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
