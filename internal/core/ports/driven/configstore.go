package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files); the typed getters
// share the conversions in ConfigString, ConfigInt, ConfigBool and ConfigStringSlice.
type ConfigStore interface {
	// Get retrieves a configuration value by dot-notation key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// ConfigString converts a stored value to a string.
func ConfigString(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// ConfigInt converts a stored value to an int.
// TOML integers decode as int64; values set in-process may be int.
func ConfigInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// ConfigBool converts a stored value to a bool.
func ConfigBool(val any) bool {
	b, _ := val.(bool)
	return b
}

// ConfigStringSlice converts a stored value to a string slice.
// TOML arrays decode as []any; non-string items are dropped.
func ConfigStringSlice(val any) []string {
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}
