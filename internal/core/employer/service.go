package employer

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

// UseCase は雇用主ユースケースの公開インターフェースです。
type UseCase interface {
	Create(ctx context.Context, cmd CreateCommand) (DTO, error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (DTO, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (DTO, error)
	FindAll(ctx context.Context) ([]DTO, error)
	FindWithFilters(ctx context.Context, f Filter) (pagination.Page[DTO], error)
}

// Service は雇用主に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	tx     TransactionManager
	policy pagination.Policy
}

// NewService は Service を生成します。
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

// Create は雇用主を作成します。
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (DTO, error) {
	created, err := s.repo.Save(ctx, New(cmd.Name, cmd.CNPJ, cmd.Address, cmd.Phone, cmd.Email))
	if err != nil {
		return DTO{}, err
	}
	return ToDTO(created), nil
}

// Update は雇用主を置き換えます。
func (s *Service) Update(ctx context.Context, id string, cmd UpdateCommand) (DTO, error) {
	var updated *Employer
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("id %q: %w", id, ErrEmployerNotFound)
		}

		existing.Update(cmd.Name, cmd.CNPJ, cmd.Address, cmd.Phone, cmd.Email)

		replaced, ok, err := s.repo.Replace(txCtx, existing)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("id %q: %w", id, ErrEmployerNotFound)
		}
		updated = replaced
		return nil
	}); err != nil {
		return DTO{}, err
	}

	return ToDTO(updated), nil
}

// Delete は雇用主を削除します。
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// FindByID は雇用主を取得します。
func (s *Service) FindByID(ctx context.Context, id string) (DTO, error) {
	var found *Employer
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		e, ok, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("id %q: %w", id, ErrEmployerNotFound)
		}
		found = e
		return nil
	}); err != nil {
		return DTO{}, err
	}
	return ToDTO(found), nil
}

// FindAll は全雇用主を返します。
func (s *Service) FindAll(ctx context.Context) ([]DTO, error) {
	var all []*Employer
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

// FindWithFilters は条件に一致する雇用主を 1 ページ分返します。
func (s *Service) FindWithFilters(ctx context.Context, f Filter) (pagination.Page[DTO], error) {
	req, err := s.policy.Validate(f.Page)
	if err != nil {
		return pagination.Page[DTO]{}, err
	}

	employers, total, err := s.repo.FindWithFilter(ctx, f.Predicate(), req.Fetch())
	if err != nil {
		return pagination.Page[DTO]{}, err
	}

	return pagination.Map(pagination.NewPage(employers, total, req), ToDTO), nil
}
