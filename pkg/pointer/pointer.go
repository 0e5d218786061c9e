package pointer

import "time"

// String returns a pointer to the provided string value.
func String(value string) *string {
	return &value
}

// StringOrDefault returns the dereferenced value, or a default when nil.
func StringOrDefault(value *string, defaultValue string) string {
	if value == nil {
		return defaultValue
	}
	return *value
}

// Int returns a pointer to the provided int value.
func Int(value int) *int {
	return &value
}

// Bool returns a pointer to the provided bool value.
func Bool(value bool) *bool {
	return &value
}

// Float64 returns a pointer to the provided float64 value.
func Float64(value float64) *float64 {
	return &value
}

// Time returns a pointer to the provided time value.
func Time(value time.Time) *time.Time {
	return &value
}
