// Package lead defines the lead record produced by a research run and the
// closed value sets it is built from.
package lead

import (
	"fmt"
	"strings"
)

// Placeholders written in place of data the model did not supply.
const (
	NotAvailable  = "N/A"
	NoWebsite     = "#"
	DefaultSource = "Google Search"
)

// Lead is one discovered contact or business match.
// Every field is always populated; see the placeholder constants.
type Lead struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Role       string     `json:"role" yaml:"role"`
	Company    string     `json:"company" yaml:"company"`
	Email      string     `json:"email" yaml:"email"`
	Phone      string     `json:"phone" yaml:"phone"`
	Website    string     `json:"website" yaml:"website"`
	Source     string     `json:"source" yaml:"source"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// Confidence rates how complete a lead's contact data is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ConfidenceFrom maps a loosely-typed value to a Confidence.
// Only the exact literals "High", "Medium" and "Low" are recognized;
// anything else, including other casings and non-strings, is Low.
func ConfidenceFrom(v any) Confidence {
	s, ok := v.(string)
	if !ok {
		return ConfidenceLow
	}
	switch c := Confidence(s); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return c
	}
	return ConfidenceLow
}

// Platform selects where the research should focus.
type Platform int

const (
	PlatformAll Platform = iota
	PlatformLinkedIn
	PlatformFacebook
	PlatformGoogle

	platformCount
)

var platformNames = [platformCount]string{
	PlatformAll:      "all",
	PlatformLinkedIn: "linkedin",
	PlatformFacebook: "facebook",
	PlatformGoogle:   "google",
}

// Platforms returns every platform in declaration order.
func Platforms() []Platform {
	out := make([]Platform, 0, platformCount)
	for p := PlatformAll; p < platformCount; p++ {
		out = append(out, p)
	}
	return out
}

// Valid reports whether p is one of the declared platforms.
func (p Platform) Valid() bool {
	return p >= PlatformAll && p < platformCount
}

func (p Platform) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Platform(%d)", int(p))
	}
	return platformNames[p]
}

// ParsePlatform parses a platform name case-insensitively.
// An empty string selects PlatformAll.
func ParsePlatform(s string) (Platform, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PlatformAll, nil
	}
	for p, name := range platformNames {
		if name == s {
			return Platform(p), nil
		}
	}
	return PlatformAll, fmt.Errorf("unknown platform %q (expected one of %s)", s, strings.Join(platformNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (p Platform) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid platform %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Platform) UnmarshalText(b []byte) error {
	v, err := ParsePlatform(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
