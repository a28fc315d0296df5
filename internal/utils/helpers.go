package utils

import (
	"math"
	"strings"
)

// RoundTo rounds f to the given number of decimal places.
func RoundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}

// RoundHalfStar rounds to the nearest 0.5, ties to the even half step.
func RoundHalfStar(f float64) float64 {
	return math.RoundToEven(f*2) / 2
}

// SplitAndTrim splits a comma separated list, dropping empty items.
func SplitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
