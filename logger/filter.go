package logger

import "strings"

// DefaultMaskValue replaces sensitive values in log output.
const DefaultMaskValue = "***"

// FilterConfig defines which field names are masked in log output.
type FilterConfig struct {
	// SensitiveFields contains field names (case-insensitive) to mask.
	SensitiveFields []string
	// MaskValue is the replacement value (default: "***").
	MaskValue string
}

// DefaultFilterConfig returns a configuration masking the credential-bearing
// fields and headers an HTTP client is likely to log.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "api_key", "apikey", "x-api-key",
			"token", "access_token", "refresh_token",
			"auth", "authorization", "proxy-authorization",
			"cookie", "set-cookie",
			"credential", "credentials",
		},
		MaskValue: DefaultMaskValue,
	}
}

// Filter masks sensitive values before they reach the log stream.
type Filter struct {
	mask   string
	fields map[string]struct{}
}

// NewFilter creates a new filter with the given configuration.
// A nil configuration falls back to DefaultFilterConfig.
func NewFilter(cfg *FilterConfig) *Filter {
	if cfg == nil {
		cfg = DefaultFilterConfig()
	}
	mask := cfg.MaskValue
	if mask == "" {
		mask = DefaultMaskValue
	}
	fields := make(map[string]struct{}, len(cfg.SensitiveFields))
	for _, f := range cfg.SensitiveFields {
		fields[strings.ToLower(f)] = struct{}{}
	}
	return &Filter{mask: mask, fields: fields}
}

// FilterString masks value when key names a sensitive field.
func (f *Filter) FilterString(key, value string) string {
	if f.isSensitive(key) {
		return f.mask
	}
	return value
}

// FilterFields returns a copy of fields with sensitive values masked.
func (f *Filter) FilterFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return fields
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = f.FilterValue(k, v)
	}
	return out
}

// FilterValue masks sensitive values inside strings and one level of string
// maps (the shapes the channel client logs: header maps and scalar fields).
func (f *Filter) FilterValue(key string, value any) any {
	switch v := value.(type) {
	case string:
		return f.FilterString(key, v)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = f.FilterString(k, s)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, nested := range v {
			if s, ok := nested.(string); ok {
				out[k] = f.FilterString(k, s)
				continue
			}
			if f.isSensitive(k) {
				out[k] = f.mask
				continue
			}
			out[k] = nested
		}
		return out
	default:
		if f.isSensitive(key) {
			return f.mask
		}
		return value
	}
}

func (f *Filter) isSensitive(key string) bool {
	_, ok := f.fields[strings.ToLower(key)]
	return ok
}
