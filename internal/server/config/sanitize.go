package config

import "strings"

// Sanitize returns a copy of the config safe to log: credential fields
// keep only their first and last two characters. The input is not
// modified.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	out := *cfg
	out.Connection.Password = maskSecret(out.Connection.Password)
	return &out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
