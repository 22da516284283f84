package logging

import "regexp"

// RedactedText replaces credentials in logged strings.
const RedactedText = "[REDACTED]"

var (
	// key=value credentials in DSN-style strings (password=..., pwd=..., sslpassword=...)
	credentialParam = regexp.MustCompile(`(?i)\b(password|sslpassword|pwd|pass)=[^;&\s]+`)

	// user:pass@host in URL-style connection strings
	urlUserInfo = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s?]+`)
)

// SanitizeConnectionString removes credentials from a Postgres URL or DSN.
// Use it before a connection string reaches any log line.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	out := credentialParam.ReplaceAllString(connStr, "${1}="+RedactedText)
	return urlUserInfo.ReplaceAllString(out, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeError renders err with any embedded credentials removed. pgx includes
// the connection string in some dial errors.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeConnectionString(err.Error())
}
