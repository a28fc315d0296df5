package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"
	"time"
)

func TestRoundHalfStar(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.0, 4.0},
		{3.5, 3.5},
		{3.74, 3.5},
		{3.75, 4.0},
		{4.24, 4.0},
		{1.0, 1.0},
		{3.25, 3.0},
		{2.25, 2.0},
		{1.75, 2.0},
		{4.75, 5.0},
	}

	for _, tt := range tests {
		if got := RoundHalfStar(tt.in); got != tt.want {
			t.Errorf("RoundHalfStar(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := SplitAndTrim(" English, Spanish ,, French ")
	want := []string{"English", "Spanish", "French"}
	if len(got) != len(want) {
		t.Fatalf("SplitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", NewUnauthenticatedError("x"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("x"), http.StatusForbidden},
		{"not found", NewNotFoundError("Tour"), http.StatusNotFound},
		{"invalid argument", NewInvalidArgumentError("x"), http.StatusBadRequest},
		{"invalid transition", NewInvalidTransitionError("x"), http.StatusBadRequest},
		{"capacity", NewAppError(ErrCapacityExceeded, ErrMsgNotEnoughCapacity), http.StatusBadRequest},
		{"conflict", NewConflictError("x"), http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("outer: %w", NewConflictError("x")), http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"internal", NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := StatusForError(tt.err); got != tt.want {
				t.Errorf("StatusForError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCapacityExceededIsInvalidTransition(t *testing.T) {
	err := NewAppError(ErrCapacityExceeded, ErrMsgNotEnoughCapacity)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("capacity exceeded should be an invalid transition")
	}
	if ErrorMessage(err) != ErrMsgNotEnoughCapacity {
		t.Errorf("ErrorMessage() = %q", ErrorMessage(err))
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("abc123", "driver", "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if token.TokenType != TokenTypeBearer {
		t.Errorf("TokenType = %q", token.TokenType)
	}

	claims, err := ValidateToken(token.AccessToken, "secret")
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Subject != "abc123" || claims.UserType != "driver" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ValidateToken(token.AccessToken, "other-secret"); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken("abc123", "user", "secret", time.Nanosecond)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	time.Sleep(1100 * time.Millisecond)

	if _, err := ValidateToken(token.AccessToken, "secret"); err == nil {
		t.Error("expired token should be rejected")
	}
}

func TestNormalizeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	for x := 0; x < 1000; x++ {
		img.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	if !IsDataURL(payload) {
		t.Fatal("IsDataURL() = false")
	}

	raw, err := DecodeImagePayload(payload, MaxImageSize)
	if err != nil {
		t.Fatalf("DecodeImagePayload() error = %v", err)
	}

	out, err := NormalizeImage(raw, 200, 200, 85)
	if err != nil {
		t.Fatalf("NormalizeImage() error = %v", err)
	}

	dims, err := GetImageDimensions(out)
	if err != nil {
		t.Fatalf("GetImageDimensions() error = %v", err)
	}
	if dims.Width != 200 || dims.Height != 100 {
		t.Errorf("dimensions = %dx%d, want 200x100", dims.Width, dims.Height)
	}
}

func TestDecodeImagePayload_Invalid(t *testing.T) {
	if _, err := DecodeImagePayload("data:image/png,notbase64", 0); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("error = %v, want ErrInvalidImage", err)
	}
	if _, err := DecodeImagePayload("%%%", 0); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("error = %v, want ErrInvalidImage", err)
	}
}
