// Package view builds presentational models from domain entities. Everything
// here is a pure function of its inputs, with no network and no shared state,
// so the same goal renders identically on the dashboard and the manage page.
package view

import (
	"fmt"
	"strings"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Amounts are integers in the smallest currency unit, displayed with id-ID
// grouping and zero fractional digits.
var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders an amount the way the dashboard shows it: "Rp45.000.000".
func FormatIDR(n int64) string {
	if n < 0 {
		return "-" + FormatIDR(-n)
	}
	return idPrinter.Sprintf("Rp%v", number.Decimal(n))
}

// FormatIDRCompact renders large contributions in short Indonesian notation:
// 15_000_000 → "Rp15 jt", 1_500_000_000 → "Rp1,5 M", 12_500 → "Rp12,5 rb".
func FormatIDRCompact(n int64) string {
	if n < 0 {
		return "-" + FormatIDRCompact(-n)
	}
	switch {
	case n >= 1_000_000_000:
		return "Rp" + compactValue(n, 1_000_000_000) + " M"
	case n >= 1_000_000:
		return "Rp" + compactValue(n, 1_000_000) + " jt"
	case n >= 1_000:
		return "Rp" + compactValue(n, 1_000) + " rb"
	default:
		return FormatIDR(n)
	}
}

// compactValue renders n/div with at most one decimal, comma-separated as
// id-ID does, dropping a trailing ",0".
func compactValue(n, div int64) string {
	whole := n / div
	tenth := (n % div) * 10 / div
	if tenth == 0 {
		return fmt.Sprintf("%d", whole)
	}
	return fmt.Sprintf("%d,%d", whole, tenth)
}

// FormatAmountInput renders an amount as the bare digits an edit form
// prefills into a currency input. ParseAmount round-trips it exactly.
func FormatAmountInput(n int64) string {
	return fmt.Sprintf("%d", n)
}

// ParseAmount is the digit-only parse behind every currency input: the user
// may type "2.500.000", "Rp 2500000" or "2500000" and the submitted value is
// the same integer. The formatted string itself is never submitted.
func ParseAmount(s string) (int64, error) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, &domain.ErrValidation{Field: "amount", Message: "amount must be a number"}
	}

	var n int64
	for _, r := range digits.String() {
		d := int64(r - '0')
		if n > (1<<63-1-d)/10 {
			return 0, &domain.ErrValidation{Field: "amount", Message: "amount is too large"}
		}
		n = n*10 + d
	}
	return n, nil
}

var indonesianMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}
