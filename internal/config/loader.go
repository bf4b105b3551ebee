package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load reads configuration from the process environment, applies defaults
// and validates the result.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom is Load with an explicit variable source.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	if err := populate(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// populate walks the config tree and fills every tagged field. Missing
// required variables are collected so that one run reports all of them.
func populate(v reflect.Value, lookup LookupFunc) error {
	var missing []string

	var walk func(reflect.Value) error
	walk = func(v reflect.Value) error {
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			fv := v.Field(i)
			if !fv.CanSet() {
				continue
			}

			if field.Type.Kind() == reflect.Struct {
				if err := walk(fv); err != nil {
					return err
				}
				continue
			}

			key := field.Tag.Get("env")
			if key == "" {
				continue
			}

			raw, ok := resolve(lookup, key, field.Tag.Get("envAlt"))
			if !ok {
				if field.Tag.Get("required") == "true" {
					missing = append(missing, key)
					continue
				}
				raw = field.Tag.Get("default")
			}
			if raw == "" {
				continue
			}

			if err := assign(fv, raw); err != nil {
				return fmt.Errorf("invalid value for %s=%q: %w", key, raw, err)
			}
		}
		return nil
	}

	if err := walk(v); err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variable(s) not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// resolve returns the first non-blank value of key or alt.
func resolve(lookup LookupFunc, key, alt string) (string, bool) {
	for _, k := range []string{key, alt} {
		if k == "" {
			continue
		}
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func assign(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)

	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		fv.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		fv.SetBool(b)

	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", fv.Type().Elem().Kind())
		}
		var items []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		fv.Set(reflect.ValueOf(items))

	default:
		return fmt.Errorf("unsupported field type: %s", fv.Kind())
	}
	return nil
}

// Validate checks that the configuration is usable and reports every
// problem at once.
func (c *Config) Validate() error {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	// Backend
	if err := validateBaseURL(c.Backend.URL); err != nil {
		fail("BACKEND_URL %v", err)
	}
	if c.Backend.Timeout <= 0 {
		fail("BACKEND_TIMEOUT must be positive")
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		fail("SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 {
		fail("SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		fail("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		fail("SERVER_REQUEST_TIMEOUT must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		fail("SERVER_MAX_UPLOAD_BYTES must be positive")
	}

	// Database is optional; only check the pool when it is in use.
	if c.Database.Enabled() {
		if c.Database.MaxConns <= 0 {
			fail("DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			fail("DB_MIN_CONNS must be non-negative")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			fail("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", c.Database.MaxConns, c.Database.MinConns)
		}
	}

	// Export
	if c.Export.PageSize <= 0 {
		fail("EXPORT_PAGE_SIZE must be positive")
	}
	if c.Export.MaxRows < c.Export.PageSize {
		fail("EXPORT_MAX_ROWS (%d) must be >= EXPORT_PAGE_SIZE (%d)", c.Export.MaxRows, c.Export.PageSize)
	}

	// Rate limiting
	if c.Rate.Enabled {
		if c.Rate.RequestsPerMinute <= 0 {
			fail("RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
		}
		if c.Rate.ExportLimit <= 0 {
			fail("RATE_LIMIT_EXPORT must be positive when rate limiting is enabled")
		}
		if c.Rate.Burst < 0 {
			fail("RATE_LIMIT_BURST must be non-negative")
		}
	}

	// Security
	for _, entry := range c.Security.TrustedProxies {
		if !validProxy(entry) {
			fail("TRUSTED_PROXIES entry %q is not a CIDR or IP address", entry)
		}
	}

	// Logging
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		fail("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		fail("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validProxy(entry string) bool {
	if _, err := netip.ParsePrefix(entry); err == nil {
		return true
	}
	_, err := netip.ParseAddr(entry)
	return err == nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("(%q) must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("(%q) has no host", raw)
	}
	return nil
}

// String returns a representation safe for logs. Connection strings are
// masked since they may carry credentials.
func (c *Config) String() string {
	db := "disabled"
	if c.Database.Enabled() {
		db = "[MASKED]"
	}
	return fmt.Sprintf(
		"Config{Server: {Addr: %q}, Backend: {URL: %q, Timeout: %s}, Database: {URL: %s, MaxConns: %d}, "+
			"Export: {PageSize: %d, MaxRows: %d}, Rate: {Enabled: %v, RequestsPerMinute: %d}, "+
			"Logging: {Level: %q, Format: %q}}",
		c.Server.Addr(), redactURL(c.Backend.URL), c.Backend.Timeout, db, c.Database.MaxConns,
		c.Export.PageSize, c.Export.MaxRows, c.Rate.Enabled, c.Rate.RequestsPerMinute,
		c.Logging.Level, c.Logging.Format,
	)
}

// redactURL drops userinfo and query from a URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[INVALID]"
	}
	u.User = nil
	u.RawQuery = ""
	return u.String()
}
