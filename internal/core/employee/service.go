package employee

import (
	"context"
	"fmt"

	"github.com/andervilo/timesheet-go/internal/core/pagination"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	Create(ctx context.Context, cmd CreateCommand) (DTO, error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (DTO, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (DTO, error)
	FindAll(ctx context.Context) ([]DTO, error)
	FindWithFilters(ctx context.Context, f Filter) (pagination.Page[DTO], error)
}

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	tx     TransactionManager
	policy pagination.Policy
}

// NewService は Service を生成します。maxPageSize が 0 以下なら既定値を使います。
func NewService(repo Repository, tx TransactionManager, maxPageSize int) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		repo: repo,
		tx:   tx,
		policy: pagination.Policy{
			MaxPageSize: maxPageSize,
			SortFields:  SortFields,
		},
	}
}

// Create は新しい社員を保存し、採番された ID を含む DTO を返します。
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (DTO, error) {
	created, err := s.repo.Save(ctx, New(cmd.Name, cmd.Email, cmd.BirthDate))
	if err != nil {
		return DTO{}, err
	}
	return ToDTO(created), nil
}

// Update は既存の社員を置き換えます。存在しなければ ErrEmployeeNotFound を返し、作成はしません。
// 読み取り後に削除された場合も ErrEmployeeNotFound になります。
func (s *Service) Update(ctx context.Context, id string, cmd UpdateCommand) (DTO, error) {
	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("id %q: %w", id, ErrEmployeeNotFound)
		}

		existing.Update(cmd.Name, cmd.Email, cmd.BirthDate)

		replaced, ok, err := s.repo.Replace(txCtx, existing)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("id %q: %w", id, ErrEmployeeNotFound)
		}
		updated = replaced
		return nil
	}); err != nil {
		return DTO{}, err
	}

	return ToDTO(updated), nil
}

// Delete は社員を削除します。存在しない ID でも成功します。
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// FindByID は社員を取得します。
func (s *Service) FindByID(ctx context.Context, id string) (DTO, error) {
	var found *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		e, ok, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("id %q: %w", id, ErrEmployeeNotFound)
		}
		found = e
		return nil
	}); err != nil {
		return DTO{}, err
	}
	return ToDTO(found), nil
}

// FindAll は全社員を返します。件数の上限はありません。
func (s *Service) FindAll(ctx context.Context) ([]DTO, error) {
	var all []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		all, err = s.repo.FindAll(txCtx)
		return err
	}); err != nil {
		return nil, err
	}

	dtos := make([]DTO, 0, len(all))
	for _, e := range all {
		dtos = append(dtos, ToDTO(e))
	}
	return dtos, nil
}

// FindWithFilters は条件に一致する社員を 1 ページ分返します。
// 件数取得とページ取得は別々に実行され、同一スナップショットは保証しません。
func (s *Service) FindWithFilters(ctx context.Context, f Filter) (pagination.Page[DTO], error) {
	req, err := s.policy.Validate(f.Page)
	if err != nil {
		return pagination.Page[DTO]{}, err
	}

	pred, err := f.Predicate()
	if err != nil {
		return pagination.Page[DTO]{}, err
	}

	employees, total, err := s.repo.FindWithFilter(ctx, pred, req.Fetch())
	if err != nil {
		return pagination.Page[DTO]{}, err
	}

	return pagination.Map(pagination.NewPage(employees, total, req), ToDTO), nil
}
