// Package ocr holds the receipt-scanning boundary.
//
// There is no real extraction backend in this iteration. MockScanner stands
// in behind port.ReceiptScanner: it simulates processing with a fixed delay
// and returns fixed results. Swapping in a real recognition service later
// means implementing the same interface; callers do not change.
package ocr

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"

	"go.uber.org/zap"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

// MockScanner is the placeholder extraction backend.
type MockScanner struct {
	delay  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewMockScanner creates the placeholder scanner. delay imitates the latency
// a real recognition call would have so the UI's processing state is
// exercised honestly.
func NewMockScanner(delay time.Duration, logger *zap.Logger) *MockScanner {
	return &MockScanner{delay: delay, now: time.Now, logger: logger}
}

// Extract validates that the upload looks like an image, waits the
// configured delay, and returns canned extraction results.
func (s *MockScanner) Extract(ctx context.Context, filename string, image []byte) (*domain.ReceiptExtraction, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return nil, &domain.ErrValidation{Field: "file", Message: "please select an image file"}
	}
	if len(image) == 0 {
		return nil, &domain.ErrValidation{Field: "file", Message: "file is empty"}
	}

	s.logger.Info("receipt scan: using mocked extraction, no recognition service is wired",
		zap.String("filename", filename),
		zap.Int("bytes", len(image)),
	)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.delay):
	}

	// Fixed mock data, matching what the real service would return for a
	// grocery receipt.
	return &domain.ReceiptExtraction{
		Amount:      450_000,
		Description: "Supermarket Purchase",
		Date:        s.now().Format("2006-01-02"),
		Merchant:    "Fresh Market",
	}, nil
}
