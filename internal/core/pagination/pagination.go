// Package pagination はページ指定から取得範囲を導出し、取得結果をページ応答に整形します。
package pagination

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Direction は並び順の方向です。
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

const (
	DefaultPage        = 0
	DefaultSize        = 10
	DefaultMaxPageSize = 100
)

var (
	ErrInvalidPage      = errors.New("pagination: invalid page")
	ErrInvalidPageSize  = errors.New("pagination: invalid page size")
	ErrInvalidDirection = errors.New("pagination: invalid direction")
	ErrInvalidSortField = errors.New("pagination: invalid sort field")
)

// Request はページ指定です。Page は 0 始まりです。
type Request struct {
	Page      int
	Size      int
	SortBy    string
	Direction Direction
}

// DefaultRequest は既定値 (page 0, size 10, 昇順, ソートなし) の Request を返します。
func DefaultRequest() Request {
	return Request{Page: DefaultPage, Size: DefaultSize, Direction: Asc}
}

// Sort はソート指定です。
type Sort struct {
	Field     string
	Direction Direction
}

// Fetch はストアへの取得範囲の指定です。
type Fetch struct {
	Skip  int
	Limit int
	Sort  *Sort
}

// Policy はページ指定の検証規則です。
type Policy struct {
	MaxPageSize int
	// SortFields は並び替え可能なフィールド名の集合です。
	SortFields []string
}

// Validate は Request を検証し、方向を正規化した Request を返します。
// 不正な値は丸めずにエラーとします。
func (p Policy) Validate(req Request) (Request, error) {
	if req.Page < 0 {
		return Request{}, fmt.Errorf("page %d: %w", req.Page, ErrInvalidPage)
	}
	if req.Size <= 0 {
		return Request{}, fmt.Errorf("size %d: %w", req.Size, ErrInvalidPageSize)
	}
	maxSize := p.MaxPageSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}
	if req.Size > maxSize {
		return Request{}, fmt.Errorf("size %d exceeds %d: %w", req.Size, maxSize, ErrInvalidPageSize)
	}
	// Page*Size がオーバーフローすると負のオフセットになる
	if req.Page > math.MaxInt/req.Size {
		return Request{}, fmt.Errorf("page %d is out of range: %w", req.Page, ErrInvalidPage)
	}

	dir, err := ParseDirection(string(req.Direction))
	if err != nil {
		return Request{}, err
	}
	req.Direction = dir

	req.SortBy = strings.TrimSpace(req.SortBy)
	if req.SortBy != "" && !p.sortable(req.SortBy) {
		return Request{}, fmt.Errorf("sort by %q: %w", req.SortBy, ErrInvalidSortField)
	}

	return req, nil
}

func (p Policy) sortable(field string) bool {
	for _, f := range p.SortFields {
		if f == field {
			return true
		}
	}
	return false
}

// ParseDirection は大文字小文字を区別せずに方向を解釈します。空文字は昇順です。
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	default:
		return "", fmt.Errorf("direction %q: %w", raw, ErrInvalidDirection)
	}
}

// Fetch は Request から取得範囲を導出します。
func (r Request) Fetch() Fetch {
	f := Fetch{Skip: r.Page * r.Size, Limit: r.Size}
	if r.SortBy != "" {
		dir := r.Direction
		if dir == "" {
			dir = Asc
		}
		f.Sort = &Sort{Field: r.SortBy, Direction: dir}
	}
	return f
}

// Page は 1 ページ分の結果とページ情報です。
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	CurrentPage   int   `json:"currentPage"`
	PageSize      int   `json:"pageSize"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage は取得結果と総件数からページ応答を組み立てます。
func NewPage[T any](content []T, total int64, req Request) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := TotalPages(total, req.Size)

	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   req.Page,
		PageSize:      req.Size,
		First:         req.Page == 0,
		Last:          totalPages == 0 || req.Page == totalPages-1,
	}
}

// TotalPages は ceil(total / size) を返します。total が 0 なら 0 です。
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	pages := total / int64(size)
	if total%int64(size) > 0 {
		pages++
	}
	return int(pages)
}

// Map はページ情報を保ったまま要素を変換します。
func Map[S, T any](p Page[S], fn func(S) T) Page[T] {
	content := make([]T, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, fn(item))
	}
	return Page[T]{
		Content:       content,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		CurrentPage:   p.CurrentPage,
		PageSize:      p.PageSize,
		First:         p.First,
		Last:          p.Last,
	}
}
