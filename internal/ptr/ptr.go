package ptr

// Ref returns a pointer to v. Handy for optional struct fields that take a
// pointer to a literal.
func Ref[T any](v T) *T {
	return &v
}
