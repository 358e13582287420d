package ft_test

import (
	"errors"
	"testing"

	"ft-go/internal/ft"
)

func TestNormalizeFlightNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "ua123", want: "UA123"},
		{raw: "  ba 42 \t", want: "BA 42"},
		{raw: "aa1", want: "AA1"},
		{raw: "AA100", want: "AA100"},
		{raw: "", wantErr: ft.ErrFlightNumberRequired},
		{raw: "   ", wantErr: ft.ErrFlightNumberRequired},
		{raw: "aa", wantErr: ft.ErrFlightNumberTooShort},
		{raw: " a1 ", wantErr: ft.ErrFlightNumberTooShort},
		{raw: "äö", wantErr: ft.ErrFlightNumberTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ft.NormalizeFlightNumber(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NormalizeFlightNumber(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeFlightNumber(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
