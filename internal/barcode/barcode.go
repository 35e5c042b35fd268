// Package barcode validates retail product barcodes scanned by clients.
package barcode

import (
	"strings"

	"pricehunt/internal/model"
)

// Format identifies a GS1 barcode symbology.
type Format string

const (
	EAN8  Format = "EAN-8"
	UPCA  Format = "UPC-A"
	EAN13 Format = "EAN-13"
)

// Normalize strips separators, validates the check digit and returns the
// canonical lookup key. UPC-A codes are widened to EAN-13 with a leading zero
// so both scans of the same product resolve to one key.
func Normalize(code string) (string, Format, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, code)

	var format Format
	switch len(cleaned) {
	case 8:
		format = EAN8
	case 12:
		format = UPCA
	case 13:
		format = EAN13
	default:
		return "", "", model.ErrInvalidBarcode
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", "", model.ErrInvalidBarcode
		}
	}

	if CheckDigit(cleaned[:len(cleaned)-1]) != cleaned[len(cleaned)-1] {
		return "", "", model.ErrInvalidBarcode
	}

	if format == UPCA {
		cleaned = "0" + cleaned
	}

	return cleaned, format, nil
}

// CheckDigit computes the GS1 mod-10 check digit for the given digits.
// Weights alternate 3,1 starting from the rightmost digit.
func CheckDigit(digits string) byte {
	sum := 0
	weight := 3
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight = 4 - weight
	}
	return byte('0' + (10-sum%10)%10)
}
