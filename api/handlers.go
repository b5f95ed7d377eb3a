package api

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"dwtwatermark"
	"dwtwatermark/codec"
)

// HandleEmbed expects multipart fields "cover" and "watermark" and responds
// with the watermarked image.
func HandleEmbed(c *gin.Context, config *Config) {
	cover, ok := readImage(c, config, "cover")
	if !ok {
		return
	}
	watermark, ok := readImage(c, config, "watermark")
	if !ok {
		return
	}

	marked, err := config.Watermarker.Embed(cover, watermark)
	if err != nil {
		writeError(c, err)
		return
	}
	writeImage(c, config, marked)
}

// HandleExtract expects multipart fields "watermarked" and "cover" and
// responds with the extracted watermark.
func HandleExtract(c *gin.Context, config *Config) {
	marked, ok := readImage(c, config, "watermarked")
	if !ok {
		return
	}
	cover, ok := readImage(c, config, "cover")
	if !ok {
		return
	}

	extracted, err := config.Watermarker.Extract(marked, cover)
	if err != nil {
		writeError(c, err)
		return
	}
	writeImage(c, config, extracted)
}

// HandleVerify expects multipart fields "original" and "extracted" and
// responds with the verification metrics.
func HandleVerify(c *gin.Context, config *Config) {
	original, ok := readImage(c, config, "original")
	if !ok {
		return
	}
	extracted, ok := readImage(c, config, "extracted")
	if !ok {
		return
	}

	res, err := config.Watermarker.Verify(original, extracted)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"verified":  res.Verified,
		"ssim":      res.SSIM,
		"ssim_rgb":  res.Channels,
		"psnr":      res.PSNR,
		"mse":       res.MSE,
		"threshold": res.Threshold,
		"message":   res.Message(),
	})
}

func readImage(c *gin.Context, config *Config, field string) (image.Image, bool) {
	file, header, err := c.Request.FormFile(field)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("No %s image uploaded", field)})
		return nil, false
	}
	defer file.Close()

	if header.Size > config.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("%s image exceeds %d bytes", field, config.MaxUploadBytes)})
		return nil, false
	}

	img, err := config.Codec.DecodeReader(file)
	if err != nil {
		writeError(c, fmt.Errorf("%s: %w", field, err))
		return nil, false
	}
	return img, true
}

// writeImage encodes img as PNG unless the "format" form value or query
// parameter names another format.
func writeImage(c *gin.Context, config *Config, img image.Image) {
	format := imaging.PNG
	if name := c.DefaultPostForm("format", c.Query("format")); name != "" {
		f, err := imaging.FormatFromExtension(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported format %q", name)})
			return
		}
		format = f
	}

	var buf bytes.Buffer
	if err := config.Codec.EncodeWriter(&buf, img, format); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/"+formatMIME(format), buf.Bytes())
}

func formatMIME(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "jpeg"
	case imaging.GIF:
		return "gif"
	case imaging.BMP:
		return "bmp"
	case imaging.TIFF:
		return "tiff"
	}
	return "png"
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dwtwatermark.ErrInvalidInput),
		errors.Is(err, dwtwatermark.ErrMissingInput),
		errors.Is(err, codec.ErrDecode):
		status = http.StatusBadRequest
	}
	log.Error().Err(err).Int("status", status).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}
