package dbq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/architeacher/queryscope/odata"
	"github.com/architeacher/queryscope/pkg/circuitbreaker"
	"github.com/architeacher/queryscope/pkg/logger"
	"github.com/architeacher/queryscope/scope"
	"github.com/jackc/pgx/v5"
)

// LimitCfg bounds page sizes. Default applies when the caller asks for
// nothing, Max caps whatever the caller asks for.
type LimitCfg struct {
	Default uint64
	Max     uint64
}

const (
	defaultPageLimit = 25
	maxPageLimit     = 1000
)

// Pager executes scoped, filtered, cursor-paginated reads over one
// table. R is the storage row shape, D the item shape handed back to
// callers.
type Pager[R, D any] struct {
	pool       PoolOps
	scanner    Scanner
	table      Table
	fields     *FieldMap[R]
	scopes     *ScopeMap
	scope      scope.AccessScope
	logger     logger.Logger
	tiebreaker odata.OrderKey
	limits     LimitCfg
	metrics    *PagerMetrics
	breaker    *circuitbreaker.CircuitBreaker[pgx.Rows]
}

// NewPager creates a pager bound to one table, field map, and access
// scope. The scope is fixed for the pager's lifetime, one request gets
// one pager.
func NewPager[R, D any](
	pool PoolOps,
	scanner Scanner,
	table Table,
	fields *FieldMap[R],
	scopes *ScopeMap,
	accessScope scope.AccessScope,
	log logger.Logger,
) *Pager[R, D] {
	return &Pager[R, D]{
		pool:       pool,
		scanner:    scanner,
		table:      table,
		fields:     fields,
		scopes:     scopes,
		scope:      accessScope,
		logger:     log,
		tiebreaker: odata.OrderKey{Field: "id", Dir: odata.Desc},
		limits:     LimitCfg{Default: defaultPageLimit, Max: maxPageLimit},
	}
}

// Tiebreaker overrides the sort key appended to every order to make it
// total. The field must carry a cursor key extractor.
func (p *Pager[R, D]) Tiebreaker(field string, dir odata.SortDir) *Pager[R, D] {
	p.tiebreaker = odata.OrderKey{Field: field, Dir: dir}

	return p
}

// Limits overrides the default and maximum page sizes.
func (p *Pager[R, D]) Limits(def, max uint64) *Pager[R, D] {
	p.limits = LimitCfg{Default: def, Max: max}

	return p
}

// WithMetrics wires fetch instrumentation in.
func (p *Pager[R, D]) WithMetrics(m *PagerMetrics) *Pager[R, D] {
	p.metrics = m

	return p
}

// WithBreaker guards query execution with a circuit breaker.
func (p *Pager[R, D]) WithBreaker(cb *circuitbreaker.CircuitBreaker[pgx.Rows]) *Pager[R, D] {
	p.breaker = cb

	return p
}

// Fetch runs the query and returns one page of mapped items plus the
// cursors to continue in either direction.
func (p *Pager[R, D]) Fetch(ctx context.Context, q odata.Query, mapItem func(R) D) (odata.Page[D], error) {
	started := time.Now()
	limit := p.clampLimit(q.Limit)

	if p.scope.IsDenyAll() {
		log := p.logger.WithContext(ctx)
		log.Debug().
			Str("table", p.table.Name).
			Msg("deny-all scope, returning empty page without querying")

		return odata.EmptyPage[D](limit), nil
	}

	order, err := p.effectiveOrder(q)
	if err != nil {
		return odata.Page[D]{}, err
	}

	rows, hasMore, err := p.fetchRows(ctx, q, order, limit)
	if err != nil {
		return odata.Page[D]{}, err
	}

	pageInfo, err := p.buildPageInfo(q, order, rows, hasMore, limit)
	if err != nil {
		return odata.Page[D]{}, err
	}

	items := make([]D, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapItem(row))
	}

	p.metrics.observeFetch(ctx, p.table.Name, len(items), time.Since(started))

	log := p.logger.WithContext(ctx)
	log.Debug().
		Str("table", p.table.Name).
		Int("items", len(items)).
		Bool("has_more", hasMore).
		Msg("page fetched")

	return odata.Page[D]{Items: items, PageInfo: pageInfo}, nil
}

func (p *Pager[R, D]) clampLimit(requested uint64) uint64 {
	switch {
	case requested == 0:
		return p.limits.Default
	case requested > p.limits.Max:
		return p.limits.Max
	default:
		return requested
	}
}

// effectiveOrder resolves the total sort order for this request. With a
// cursor the order comes from the cursor's sort signature, an explicit
// $orderby alongside it is rejected rather than trusted.
func (p *Pager[R, D]) effectiveOrder(q odata.Query) (odata.OrderBy, error) {
	if q.Cursor != nil {
		if len(q.Order) > 0 {
			return nil, odata.ErrOrderWithCursor
		}

		if err := q.Cursor.Validate(q.FilterHash); err != nil {
			return nil, err
		}

		order, err := q.Cursor.Order()
		if err != nil {
			return nil, err
		}

		if err := p.checkOrderFields(order); err != nil {
			return nil, err
		}

		return order, nil
	}

	order := q.Order.EnsureTiebreaker(p.tiebreaker.Field, p.tiebreaker.Dir)

	if err := p.checkOrderFields(order); err != nil {
		return nil, err
	}

	return order, nil
}

func (p *Pager[R, D]) checkOrderFields(order odata.OrderBy) error {
	for _, key := range order {
		if _, ok := p.fields.Resolve(key.Field); !ok {
			return fmt.Errorf("%w: %q", odata.ErrInvalidOrderBy, key.Field)
		}
	}

	return nil
}

func (p *Pager[R, D]) fetchRows(ctx context.Context, q odata.Query, order odata.OrderBy, limit uint64) ([]R, bool, error) {
	builder := psql.Select(p.table.Columns...).From(p.table.Name)

	scopeCond, err := BuildScopeCondition(p.scopes, p.scope)
	if err != nil {
		return nil, false, err
	}

	builder = builder.Where(scopeCond)

	if q.HasFilter() {
		node, err := Convert(q.Filter, p.fields)
		if err != nil {
			return nil, false, err
		}

		predicate, err := SqlizeFilter(node)
		if err != nil {
			return nil, false, err
		}

		builder = builder.Where(predicate)
	}

	backward := q.Cursor != nil && q.Cursor.Direction == odata.DirectionBackward

	if q.Cursor != nil {
		boundary, err := cursorBoundary(*q.Cursor, order, p.fields)
		if err != nil {
			return nil, false, err
		}

		builder = builder.Where(boundary)
	}

	// A backward page walks the reversed order and is flipped back
	// after scanning, so the page reads the same way in both directions.
	queryOrder := order
	if backward {
		queryOrder = order.ReverseDirections()
	}

	for _, key := range queryOrder {
		field, _ := p.fields.Resolve(key.Field)
		builder = builder.OrderBy(fmt.Sprintf("%s %s", field.Column, strings.ToUpper(string(key.Dir))))
	}

	// One extra row tells us whether another page exists.
	builder = builder.Limit(limit + 1)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build page query: %w", err)
	}

	pgxRows, err := circuitbreaker.Execute(p.breaker, func() (pgx.Rows, error) {
		return p.pool.Query(ctx, query, args...)
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return nil, false, err
		}

		return nil, false, fmt.Errorf("%w: %v", ErrDatabaseQuery, err)
	}

	var rows []R

	if err := p.scanner.ScanAll(&rows, pgxRows); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDatabaseQuery, err)
	}

	hasMore := uint64(len(rows)) > limit
	if hasMore {
		rows = rows[:limit]
	}

	if backward {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	return rows, hasMore, nil
}

// buildPageInfo emits continuation cursors. Going forward, a next cursor
// exists while more rows remain and a prev cursor once we resumed from a
// cursor. Going backward the mirror holds: the page we came from is
// always ahead of us, and a prev cursor exists while more rows remain
// behind.
func (p *Pager[R, D]) buildPageInfo(q odata.Query, order odata.OrderBy, rows []R, hasMore bool, limit uint64) (odata.PageInfo, error) {
	info := odata.PageInfo{Limit: limit}

	if len(rows) == 0 {
		return info, nil
	}

	backward := q.Cursor != nil && q.Cursor.Direction == odata.DirectionBackward

	emitNext := hasMore
	emitPrev := q.Cursor != nil

	if backward {
		emitNext = true
		emitPrev = hasMore
	}

	if emitNext {
		cursor, err := cursorForRow(rows[len(rows)-1], order, p.fields, q.FilterHash, odata.DirectionForward)
		if err != nil {
			return odata.PageInfo{}, err
		}

		token, err := cursor.Encode()
		if err != nil {
			return odata.PageInfo{}, err
		}

		info.NextCursor = &token
	}

	if emitPrev {
		cursor, err := cursorForRow(rows[0], order, p.fields, q.FilterHash, odata.DirectionBackward)
		if err != nil {
			return odata.PageInfo{}, err
		}

		token, err := cursor.Encode()
		if err != nil {
			return odata.PageInfo{}, err
		}

		info.PrevCursor = &token
	}

	return info, nil
}
