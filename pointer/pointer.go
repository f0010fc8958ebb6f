package pointer

func FromAny[T any](v T) *T {
	return &v
}

func FromString(s string) *string {
	return &s
}

// FromNonEmptyString returns nil for empty strings
func FromNonEmptyString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ToString(p *string) string {
	return Default(p, "")
}

func Default[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
