package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"dwtwatermark"
	"dwtwatermark/codec"
)

// Config holds what the handlers share. It is not modified after setup.
type Config struct {
	Watermarker    *dwtwatermark.Watermarker
	Codec          *codec.Codec
	MaxUploadBytes int64
}

func SetupRoutes(r *gin.Engine, config *Config) {
	apiGroup := r.Group("/api/watermark")
	apiGroup.Use(limitBody(config.MaxUploadBytes))
	{
		apiGroup.POST("/embed", func(c *gin.Context) { HandleEmbed(c, config) })
		apiGroup.POST("/extract", func(c *gin.Context) { HandleExtract(c, config) })
		apiGroup.POST("/verify", func(c *gin.Context) { HandleVerify(c, config) })
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "dwtwatermark",
			"alpha":     config.Watermarker.Alpha(),
			"threshold": config.Watermarker.Threshold(),
		})
	})
}

// uploadsPerRequest is the most image fields any endpoint reads.
const uploadsPerRequest = 2

// multipartOverhead allows for part headers and boundaries on top of the
// image bytes themselves.
const multipartOverhead = 64 << 10

// limitBody caps the request body so an oversized upload is rejected while
// it is read, before gin buffers it. Requests that announce a larger body
// are refused without reading.
func limitBody(maxUpload int64) gin.HandlerFunc {
	limit := uploadsPerRequest*maxUpload + multipartOverhead
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("request body exceeds %d bytes", limit),
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
