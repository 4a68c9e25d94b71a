package domain

// Status 数据源返回结果的状态
type Status int

const (
	// StatusAbsent 没有可用的值 (不是错误)
	StatusAbsent Status = iota
	// StatusPresent 拿到了值
	StatusPresent
	// StatusFailed 调用失败，对调用方而言等同于 Absent，但保留原因用于日志
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusFailed:
		return "failed"
	default:
		return "absent"
	}
}

// Result 适配器统一的返回值，任何适配器都不向外抛出 error
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// Present 成功结果
func Present[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusPresent}
}

// Absent 无值结果
func Absent[T any]() Result[T] {
	return Result[T]{Status: StatusAbsent}
}

// Failed 失败结果
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err}
}

// Ok 是否拿到了值
func (r Result[T]) Ok() bool {
	return r.Status == StatusPresent
}

// Get 返回值以及是否存在
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.Ok()
}

// OrElse 不存在时返回默认值
func (r Result[T]) OrElse(fallback T) T {
	if r.Ok() {
		return r.Value
	}
	return fallback
}
