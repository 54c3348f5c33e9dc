package pointer

func FromAny[T any](v T) *T {
	return &v
}

func ToString(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}

func CopyFloat64(p *float64) *float64 {
	if p == nil {
		return nil
	}

	v := *p
	return &v
}
