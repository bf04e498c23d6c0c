package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/andervilo/timesheet-go/internal/core/query"
	pgdb "github.com/andervilo/timesheet-go/internal/platform/db/postgres"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	jsoniter "github.com/json-iterator/go"
)

const (
	dialectPostgres = "postgres"
	colID           = "id"
	colDoc          = "doc"
	dateLayout      = "2006-01-02"
)

var (
	// ErrUnknownField は述語やソートにコレクションが持たないフィールドが指定された場合に返却されます。
	ErrUnknownField = errors.New("postgres: unknown document field")
	// ErrInvalidFetch は取得範囲のオフセットまたは件数が負の場合に返却されます。
	ErrInvalidFetch = errors.New("postgres: invalid fetch range")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type rawDocument struct {
	id  string
	doc []byte
}

// collection は id と jsonb の doc 列を持つ 1 テーブルをドキュメントコレクションとして扱います。
type collection struct {
	pool       pgdb.Queryer
	table      string
	textFields map[string]bool
	dateFields map[string]bool
}

func newCollection(pool pgdb.Queryer, table string, textFields, dateFields []string) *collection {
	return &collection{
		pool:       pool,
		table:      table,
		textFields: toSet(textFields),
		dateFields: toSet(dateFields),
	}
}

func (c *collection) save(ctx context.Context, id string, doc []byte) (rawDocument, error) {
	exec := pgdb.QueryerFromContext(ctx, c.pool)

	var row pgx.Row
	if id == "" {
		row = exec.QueryRow(ctx, `INSERT INTO `+c.table+` (doc) VALUES ($1) RETURNING id, doc`, doc)
	} else {
		row = exec.QueryRow(ctx, `
        INSERT INTO `+c.table+` (id, doc) VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc
        RETURNING id, doc
    `, id, doc)
	}

	var out rawDocument
	if err := row.Scan(&out.id, &out.doc); err != nil {
		return rawDocument{}, fmt.Errorf("postgres: save %s: %w", c.table, err)
	}
	return out, nil
}

// replace は既存ドキュメントだけを置き換えます。行が無ければ found=false を返し、作成はしません。
func (c *collection) replace(ctx context.Context, id string, doc []byte) (rawDocument, bool, error) {
	exec := pgdb.QueryerFromContext(ctx, c.pool)
	row := exec.QueryRow(ctx, `UPDATE `+c.table+` SET doc = $2 WHERE id = $1 RETURNING id, doc`, id, doc)

	var out rawDocument
	if err := row.Scan(&out.id, &out.doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rawDocument{}, false, nil
		}
		return rawDocument{}, false, fmt.Errorf("postgres: replace %s: %w", c.table, err)
	}
	return out, true, nil
}

func (c *collection) findByID(ctx context.Context, id string) (rawDocument, bool, error) {
	exec := pgdb.QueryerFromContext(ctx, c.pool)
	row := exec.QueryRow(ctx, `SELECT id, doc FROM `+c.table+` WHERE id = $1 LIMIT 1`, id)

	var out rawDocument
	if err := row.Scan(&out.id, &out.doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rawDocument{}, false, nil
		}
		return rawDocument{}, false, fmt.Errorf("postgres: find %s by id: %w", c.table, err)
	}
	return out, true, nil
}

func (c *collection) findAll(ctx context.Context) ([]rawDocument, error) {
	exec := pgdb.QueryerFromContext(ctx, c.pool)
	rows, err := exec.Query(ctx, `SELECT id, doc FROM `+c.table)
	if err != nil {
		return nil, fmt.Errorf("postgres: find all %s: %w", c.table, err)
	}
	return collectDocuments(rows, c.table)
}

func (c *collection) deleteByID(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, c.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM `+c.table+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete %s: %w", c.table, err)
	}
	return nil
}

// findWithFilter は件数取得とページ取得を 2 回のクエリで実行します。
// 両者の間に書き込みがあると総件数とページ内容が食い違うことがあります。
func (c *collection) findWithFilter(ctx context.Context, pred query.Predicate, fetch pagination.Fetch) ([]rawDocument, int64, error) {
	countSQL, countArgs, err := c.buildCountQuery(pred)
	if err != nil {
		return nil, 0, err
	}
	pageSQL, pageArgs, err := c.buildPageQuery(pred, fetch)
	if err != nil {
		return nil, 0, err
	}

	exec := pgdb.QueryerFromContext(ctx, c.pool)

	var total int64
	if err := exec.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: count %s: %w", c.table, err)
	}

	rows, err := exec.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: filter %s: %w", c.table, err)
	}
	docs, err := collectDocuments(rows, c.table)
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

func (c *collection) buildCountQuery(pred query.Predicate) (string, []any, error) {
	where, err := c.whereExpressions(pred)
	if err != nil {
		return "", nil, err
	}

	ds := goqu.Dialect(dialectPostgres).
		From(c.table).
		Select(goqu.COUNT(goqu.Star())).
		Prepared(true)
	if len(where) > 0 {
		ds = ds.Where(where...)
	}

	sql, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("postgres: build count query: %w", err)
	}
	return sql, args, nil
}

func (c *collection) buildPageQuery(pred query.Predicate, fetch pagination.Fetch) (string, []any, error) {
	if fetch.Skip < 0 || fetch.Limit < 0 {
		return "", nil, fmt.Errorf("skip %d limit %d: %w", fetch.Skip, fetch.Limit, ErrInvalidFetch)
	}

	where, err := c.whereExpressions(pred)
	if err != nil {
		return "", nil, err
	}

	order := make([]exp.OrderedExpression, 0, 2)
	if fetch.Sort != nil && fetch.Sort.Field != colID {
		field, err := c.textExpression(fetch.Sort.Field)
		if err != nil {
			return "", nil, err
		}
		order = append(order, orderBy(field, fetch.Sort.Direction))
	}
	if fetch.Sort != nil && fetch.Sort.Field == colID {
		order = append(order, orderBy(goqu.I(colID), fetch.Sort.Direction))
	} else {
		order = append(order, goqu.I(colID).Asc())
	}

	ds := goqu.Dialect(dialectPostgres).
		From(c.table).
		Select(colID, colDoc).
		Order(order...).
		Offset(uint(fetch.Skip)).
		Limit(uint(fetch.Limit)).
		Prepared(true)
	if len(where) > 0 {
		ds = ds.Where(where...)
	}

	sql, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("postgres: build page query: %w", err)
	}
	return sql, args, nil
}

func (c *collection) whereExpressions(pred query.Predicate) ([]exp.Expression, error) {
	conds := pred.Conditions()
	exprs := make([]exp.Expression, 0, len(conds))

	for _, cond := range conds {
		switch cond.Kind {
		case query.KindContains:
			field, err := c.textExpression(cond.Field)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, field.ILike("%"+escapeLike(cond.Text)+"%"))
		case query.KindDateRange:
			field, err := c.dateExpression(cond.Field)
			if err != nil {
				return nil, err
			}
			if cond.From != nil {
				exprs = append(exprs, field.Gte(cond.From.Format(dateLayout)))
			}
			if cond.To != nil {
				exprs = append(exprs, field.Lte(cond.To.Format(dateLayout)))
			}
		case query.KindMonth:
			if !c.dateFields[cond.Field] {
				return nil, fmt.Errorf("%s.%s: %w", c.table, cond.Field, ErrUnknownField)
			}
			month := goqu.L(fmt.Sprintf(`EXTRACT(MONTH FROM ("doc"->>'%s')::date)`, cond.Field))
			exprs = append(exprs, month.Eq(int(cond.Month)))
		default:
			return nil, fmt.Errorf("postgres: unsupported condition %s", cond.Kind)
		}
	}

	return exprs, nil
}

// textExpression はドキュメントのフィールドを text として参照します。
// フィールド名は既知の集合に限定しているため SQL に直接埋め込みます。
func (c *collection) textExpression(field string) (exp.LiteralExpression, error) {
	if !c.textFields[field] && !c.dateFields[field] {
		return nil, fmt.Errorf("%s.%s: %w", c.table, field, ErrUnknownField)
	}
	return goqu.L(fmt.Sprintf(`"doc"->>'%s'`, field)), nil
}

func (c *collection) dateExpression(field string) (exp.LiteralExpression, error) {
	if !c.dateFields[field] {
		return nil, fmt.Errorf("%s.%s: %w", c.table, field, ErrUnknownField)
	}
	return goqu.L(fmt.Sprintf(`("doc"->>'%s')::date`, field)), nil
}

type orderable interface {
	Asc() exp.OrderedExpression
	Desc() exp.OrderedExpression
}

func orderBy(field orderable, dir pagination.Direction) exp.OrderedExpression {
	if dir == pagination.Desc {
		return field.Desc()
	}
	return field.Asc()
}

func collectDocuments(rows pgx.Rows, table string) ([]rawDocument, error) {
	defer rows.Close()

	docs := make([]rawDocument, 0)
	for rows.Next() {
		var d rawDocument
		if err := rows.Scan(&d.id, &d.doc); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", table, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read %s: %w", table, err)
	}
	return docs, nil
}

// escapeLike は LIKE のメタ文字をエスケープし、入力を文字どおりに部分一致させます。
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
