package middleware

import (
	"fmt"
	"strings"
)

// Input validation and sanitization utilities

// ValidateNCType checks the non-conformance type against the allowed list
func ValidateNCType(t string) error {
	allowed := map[string]bool{
		"raw-material":   true,
		"finished-goods": true,
		"wip":            true,
		"incident":       true,
		"other":          true,
	}
	if !allowed[strings.ToLower(t)] {
		return fmt.Errorf("invalid nc_type: %s (allowed: raw-material, finished-goods, wip, incident, other)", t)
	}
	return nil
}

// ValidateMachineStatus checks the machine status value
func ValidateMachineStatus(s string) error {
	if s == "" {
		return nil // defaults to operational
	}
	if s != "operational" && s != "down" {
		return fmt.Errorf("invalid machine_status: %s (allowed: operational, down)", s)
	}
	return nil
}

// ValidateUrgency checks the MJC urgency value
func ValidateUrgency(u string) error {
	if u == "" {
		return nil // defaults to medium
	}
	allowed := map[string]bool{
		"critical": true,
		"high":     true,
		"medium":   true,
		"low":      true,
	}
	if !allowed[strings.ToLower(u)] {
		return fmt.Errorf("invalid urgency: %s (allowed: critical, high, medium, low)", u)
	}
	return nil
}

// ValidateFormType checks the quality-gate form type
func ValidateFormType(t string) error {
	if t != "nca" && t != "mjc" {
		return fmt.Errorf("invalid form_type: %s (allowed: nca, mjc)", t)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateYear validates a trend-report year parameter
func ValidateYear(year, current int) int {
	if year < 2020 || year > current {
		return current
	}
	return year
}
