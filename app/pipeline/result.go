package pipeline

// StageResult distinguishes live provider data from fallback content, so
// callers and tests can tell the two apart without reading logs.
type StageResult[T any] struct {
	Value    T
	Degraded bool
	Reason   string
}

func Ok[T any](value T) StageResult[T] {
	return StageResult[T]{Value: value}
}

func Degraded[T any](fallback T, reason string) StageResult[T] {
	return StageResult[T]{Value: fallback, Degraded: true, Reason: reason}
}
