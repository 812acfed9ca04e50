package observability

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/m-mizutani/masq"
)

// RedactedValue replaces sensitive values in log output.
const RedactedValue = "[REDACTED]"

// sensitiveFields are always redacted, in addition to configured names.
var sensitiveFields = []string{"password", "secret", "token", "apikey", "api_key", "credential"}

// sensitiveQueryParam matches credentials carried in URL query strings, which
// is how playlist sources usually authenticate.
var sensitiveQueryParam = regexp.MustCompile(`(?i)([?&](?:password|passwd|secret|token|apikey|api_key|credential)=)[^&#\s"]*`)

// newRedactor returns a ReplaceAttr function masking sensitive attributes.
// Attribute keys are matched case-insensitively; struct values logged with
// slog.Any are walked by masq so nested fields are masked too.
func newRedactor(extra []string) func(groups []string, a slog.Attr) slog.Attr {
	names := make(map[string]struct{}, len(sensitiveFields)+len(extra))
	var opts []masq.Option
	add := func(name string) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return
		}
		if _, ok := names[name]; ok {
			return
		}
		names[name] = struct{}{}
		opts = append(opts,
			masq.WithFieldName(name),
			masq.WithFieldName(fieldCase(name)),
		)
	}
	for _, name := range sensitiveFields {
		add(name)
	}
	for _, name := range extra {
		add(name)
	}
	opts = append(opts, masq.WithTag("secret"), masq.WithRedactMessage(RedactedValue))
	structs := masq.New(opts...)

	return func(groups []string, a slog.Attr) slog.Attr {
		if _, ok := names[strings.ToLower(a.Key)]; ok {
			return slog.String(a.Key, RedactedValue)
		}
		if a.Value.Kind() == slog.KindString {
			s := a.Value.String()
			if strings.Contains(s, "=") {
				return slog.String(a.Key, sensitiveQueryParam.ReplaceAllString(s, "${1}"+RedactedValue))
			}
			return a
		}
		if a.Value.Kind() == slog.KindAny {
			return structs(groups, a)
		}
		return a
	}
}

// fieldCase converts "api_key" to "APIKey"-style Go field names.
func fieldCase(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		switch p {
		case "api", "id", "url":
			parts[i] = strings.ToUpper(p)
		case "":
		default:
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}
