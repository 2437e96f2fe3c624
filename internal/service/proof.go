package service

import (
	"bytes"
	"fmt"
	"io"

	"campus-merch-store/internal/config"

	"github.com/disintegration/imaging"
)

// ProofProcessor turns an uploaded proof of payment into the JPEG that is
// stored: decoded, auto-oriented, and fit within the configured maximum side.
type ProofProcessor struct {
	maxBytes int64
	maxSide  int
}

func NewProofProcessor(cfg *config.Storage) *ProofProcessor {
	return &ProofProcessor{
		maxBytes: cfg.MaxProofBytes,
		maxSide:  cfg.MaxProofSide,
	}
}

func (p *ProofProcessor) Normalize(r io.Reader) ([]byte, error) {
	if p.maxBytes > 0 {
		r = io.LimitReader(r, p.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read proof: %w", err)
	}
	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrProofTooLarge, p.maxBytes)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	b := img.Bounds()
	if p.maxSide > 0 && (b.Dx() > p.maxSide || b.Dy() > p.maxSide) {
		img = imaging.Fit(img, p.maxSide, p.maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode proof: %w", err)
	}
	return buf.Bytes(), nil
}
