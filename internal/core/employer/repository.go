package employer

import (
	"context"

	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/andervilo/timesheet-go/internal/core/query"
)

// Repository は雇用主ドキュメントの永続化を行うインターフェースです。
type Repository interface {
	Save(ctx context.Context, e *Employer) (*Employer, error)
	Replace(ctx context.Context, e *Employer) (*Employer, bool, error)
	FindByID(ctx context.Context, id string) (*Employer, bool, error)
	FindAll(ctx context.Context) ([]*Employer, error)
	DeleteByID(ctx context.Context, id string) error
	FindWithFilter(ctx context.Context, pred query.Predicate, fetch pagination.Fetch) ([]*Employer, int64, error)
}
