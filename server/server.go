package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"

	"github.com/chaos-io/whitebg/enhance"
)

// Server 把单图管线挂成 HTTP 接口，multipart 图片进，白底 JPEG 出
type Server struct {
	pipeline *enhance.Pipeline
}

func New(p *enhance.Pipeline) *Server {
	return &Server{pipeline: p}
}

func (s *Server) Engine() *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery())

	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	e.POST("/api/enhance", s.enhanceHandler)
	return e
}

// Run 阻塞启动
func (s *Server) Run(addr string) error {
	return s.Engine().Run(addr)
}

/*
	curl -X POST "$BASE_URL/api/enhance" \
	  -F "image=@my_image.png" \
	  --output white_bg_my_image.jpg
*/
func (s *Server) enhanceHandler(c *gin.Context) {
	reqID := ksuid.New().String()

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"request_id": reqID, "error": "missing image field"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"request_id": reqID, "error": err.Error()})
		return
	}
	defer func() {
		_ = f.Close()
	}()

	input, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"request_id": reqID, "error": err.Error()})
		return
	}

	output, err := s.pipeline.Process(c.Request.Context(), input)
	switch {
	case errors.Is(err, enhance.ErrNoObjectDetected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"request_id": reqID, "error": "no object detected"})
		return
	case errors.Is(err, enhance.ErrInvalidInput):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"request_id": reqID, "error": "invalid input image"})
		return
	case err != nil:
		slog.Error("enhance failed", "request_id", reqID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"request_id": reqID, "error": "internal error"})
		return
	}

	c.Header("X-Request-Id", reqID)
	c.Data(http.StatusOK, "image/jpeg", output)
}
