package employee

import (
	"context"

	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/andervilo/timesheet-go/internal/core/query"
)

// Repository は社員ドキュメントの永続化の抽象です。
type Repository interface {
	// Save は ID が空なら新規作成して採番済みの社員を、そうでなければ全体を置き換えた社員を返します。
	Save(ctx context.Context, e *Employee) (*Employee, error)
	// Replace は既存の社員だけを置き換えます。存在しなければ (nil, false, nil) を返し、作成はしません。
	Replace(ctx context.Context, e *Employee) (*Employee, bool, error)
	// FindByID は存在しない場合 (nil, false, nil) を返します。
	FindByID(ctx context.Context, id string) (*Employee, bool, error)
	FindAll(ctx context.Context) ([]*Employee, error)
	// DeleteByID は存在しない ID でもエラーにしません。
	DeleteByID(ctx context.Context, id string) error
	// FindWithFilter は該当ページの社員と条件に一致する総件数を返します。
	FindWithFilter(ctx context.Context, pred query.Predicate, fetch pagination.Fetch) ([]*Employee, int64, error)
}
