package common

import (
	"context"
	"errors"

	"github-portfolio/internal/domain"
)

// Provider 同一个事实的一个候选数据源
type Provider[T any] func(ctx context.Context) domain.Result[T]

// FirstPresent 按顺序逐个尝试 providers，返回第一个拿到值的结果
//
// 后面的层级默认更慢、更不可靠，所以严格串行，不做并发竞速：
// 前一层成功后，后面的 provider 不会被调用。
// 全部失败时：只要有一层报错就返回 Failed(合并后的错误)，否则返回 Absent。
func FirstPresent[T any](ctx context.Context, providers ...Provider[T]) domain.Result[T] {
	var errs []error
	for _, provide := range providers {
		if provide == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res := provide(ctx)
		if res.Ok() {
			return res
		}
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}

	if len(errs) > 0 {
		return domain.Failed[T](errors.Join(errs...))
	}
	return domain.Absent[T]()
}
