// Package session tracks one user's way through the pipeline: cover and
// watermark selection, embedding, extraction and verification. Each
// operation is guarded by the stage the session has reached.
package session

import (
	"errors"
	"fmt"
	"path/filepath"

	"dwtwatermark"
	"dwtwatermark/codec"
)

// Stage is the furthest pipeline step a session has completed.
type Stage int

const (
	NoCover Stage = iota
	CoverLoaded
	WatermarkLoaded
	Embedded
	Extracted
)

func (s Stage) String() string {
	switch s {
	case NoCover:
		return "no-cover"
	case CoverLoaded:
		return "cover-loaded"
	case WatermarkLoaded:
		return "watermark-loaded"
	case Embedded:
		return "embedded"
	case Extracted:
		return "extracted"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ErrStage is returned, together with dwtwatermark.ErrInvalidInput, when an
// operation runs before its prerequisite stage.
var ErrStage = errors.New("prerequisite step not run")

// qrName is the artifact a generated QR watermark is written to.
const qrName = "qr_watermark.png"

// Artifacts names the files a session writes under Dir.
type Artifacts struct {
	Dir             string
	WatermarkedName string
	ExtractedName   string
}

// Session is not safe for concurrent use.
type Session struct {
	wm        *dwtwatermark.Watermarker
	codec     *codec.Codec
	artifacts Artifacts

	stage         Stage
	coverPath     string
	watermarkPath string
	markedPath    string
	extractedPath string
}

func New(wm *dwtwatermark.Watermarker, c *codec.Codec, a Artifacts) *Session {
	if a.Dir == "" {
		a.Dir = "."
	}
	return &Session{wm: wm, codec: c, artifacts: a}
}

// Stage returns the current stage.
func (s *Session) Stage() Stage { return s.stage }

// CoverPath returns the selected cover image.
func (s *Session) CoverPath() string { return s.coverPath }

// WatermarkPath returns the selected (or generated) watermark image.
func (s *Session) WatermarkPath() string { return s.watermarkPath }

// WatermarkedPath returns the artifact written by the last Embed.
func (s *Session) WatermarkedPath() string { return s.markedPath }

// ExtractedPath returns the artifact written by the last Extract.
func (s *Session) ExtractedPath() string { return s.extractedPath }

// LoadCover selects the cover image. Any previous artifacts are forgotten;
// a watermark selected earlier is kept.
func (s *Session) LoadCover(path string) error {
	if _, err := s.codec.Decode(path); err != nil {
		return err
	}
	s.coverPath = path
	s.resetArtifacts()
	if s.watermarkPath != "" {
		s.stage = WatermarkLoaded
	} else {
		s.stage = CoverLoaded
	}
	s.wm.Logger().Info().Str("cover", path).Stringer("stage", s.stage).Msg("cover selected")
	return nil
}

// LoadWatermark selects the watermark image. A cover must be selected first.
func (s *Session) LoadWatermark(path string) error {
	if err := s.require(CoverLoaded, "select watermark"); err != nil {
		return err
	}
	if _, err := s.codec.Decode(path); err != nil {
		return err
	}
	s.watermarkPath = path
	s.resetArtifacts()
	s.stage = WatermarkLoaded
	s.wm.Logger().Info().Str("watermark", path).Msg("watermark selected")
	return nil
}

// LoadWatermarkQR generates a QR code watermark for content, sized to the
// cover's shorter side, and selects it.
func (s *Session) LoadWatermarkQR(content string) error {
	if err := s.require(CoverLoaded, "generate QR watermark"); err != nil {
		return err
	}
	cover, err := s.codec.Decode(s.coverPath)
	if err != nil {
		return err
	}
	b := cover.Bounds()
	qr, err := dwtwatermark.QRCode(content, min(b.Dx(), b.Dy()))
	if err != nil {
		return err
	}
	path := filepath.Join(s.artifacts.Dir, qrName)
	if err := s.codec.Encode(qr, path); err != nil {
		return err
	}
	return s.LoadWatermark(path)
}

// Embed watermarks the cover and writes the result. It returns the path of
// the watermarked image.
func (s *Session) Embed() (string, error) {
	if err := s.require(WatermarkLoaded, "embed"); err != nil {
		return "", err
	}
	cover, err := s.codec.Decode(s.coverPath)
	if err != nil {
		return "", err
	}
	watermark, err := s.codec.Decode(s.watermarkPath)
	if err != nil {
		return "", err
	}

	marked, err := s.wm.Embed(cover, watermark)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.artifacts.Dir, s.artifacts.WatermarkedName)
	if err := s.codec.Encode(marked, path); err != nil {
		return "", err
	}

	s.markedPath = path
	s.extractedPath = ""
	s.stage = Embedded
	s.wm.Logger().Info().Str("path", path).Msg("watermark embedded")
	return path, nil
}

// Extract reads back the watermarked image written by Embed, recovers the
// watermark with the selected cover and writes it. It returns the path of
// the extracted watermark.
func (s *Session) Extract() (string, error) {
	if err := s.require(Embedded, "extract"); err != nil {
		return "", err
	}
	marked, err := s.codec.Decode(s.markedPath)
	if err != nil {
		return "", err
	}
	cover, err := s.codec.Decode(s.coverPath)
	if err != nil {
		return "", err
	}

	extracted, err := s.wm.Extract(marked, cover)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.artifacts.Dir, s.artifacts.ExtractedName)
	if err := s.codec.Encode(extracted, path); err != nil {
		return "", err
	}

	s.extractedPath = path
	s.stage = Extracted
	s.wm.Logger().Info().Str("path", path).Msg("watermark extracted")
	return path, nil
}

// Verify compares the selected watermark with the extracted one read back
// from disk.
func (s *Session) Verify() (*dwtwatermark.Result, error) {
	if err := s.require(Extracted, "verify"); err != nil {
		return nil, err
	}
	original, err := s.codec.Decode(s.watermarkPath)
	if err != nil {
		return nil, err
	}
	extracted, err := s.codec.Decode(s.extractedPath)
	if err != nil {
		return nil, err
	}

	res, err := s.wm.Verify(original, extracted)
	if err != nil {
		return nil, err
	}
	s.wm.Logger().Info().
		Float64("ssim", res.SSIM).
		Float64("psnr", res.PSNR).
		Bool("verified", res.Verified).
		Msg("watermark verified")
	return res, nil
}

func (s *Session) require(stage Stage, op string) error {
	if s.stage < stage {
		return fmt.Errorf("%w: %w: %s requires %s, session is %s",
			dwtwatermark.ErrInvalidInput, ErrStage, op, stage, s.stage)
	}
	return nil
}

func (s *Session) resetArtifacts() {
	s.markedPath = ""
	s.extractedPath = ""
}
