package ocr_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/ocr"

	"go.uber.org/zap"
)

func TestExtract_ReturnsFixedResults(t *testing.T) {
	s := ocr.NewMockScanner(10*time.Millisecond, zap.NewNop())

	got, err := s.Extract(context.Background(), "receipt.jpg", []byte("fake-image"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Amount != 450_000 {
		t.Errorf("expected fixed amount, got %d", got.Amount)
	}
	if got.Merchant != "Fresh Market" {
		t.Errorf("expected fixed merchant, got %q", got.Merchant)
	}
}

func TestExtract_RejectsNonImage(t *testing.T) {
	s := ocr.NewMockScanner(0, zap.NewNop())

	_, err := s.Extract(context.Background(), "receipt.pdf", []byte("data"))

	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for non-image, got %v", err)
	}
}

func TestExtract_RejectsEmptyFile(t *testing.T) {
	s := ocr.NewMockScanner(0, zap.NewNop())

	_, err := s.Extract(context.Background(), "receipt.png", nil)

	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for empty file, got %v", err)
	}
}

func TestExtract_RespectsContext(t *testing.T) {
	s := ocr.NewMockScanner(5*time.Second, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Extract(ctx, "receipt.jpg", []byte("data"))
	if err == nil {
		t.Fatal("expected context error while waiting out the mock delay")
	}
}
