package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"ttms-analytics/logging"
	"ttms-analytics/metrics"
	"ttms-analytics/models"
)

// Paginator забирает сущность целиком страницами limit/offset.
// Короткая страница означает конец данных; maxPages защищает от бесконечной выдачи.
type Paginator struct {
	client   *UpstreamClient
	pageSize int
	maxPages int
}

func NewPaginator(client *UpstreamClient, pageSize, maxPages int) *Paginator {
	if pageSize <= 0 {
		pageSize = 900
	}
	if maxPages <= 0 {
		maxPages = 200
	}
	return &Paginator{client: client, pageSize: pageSize, maxPages: maxPages}
}

func (p *Paginator) PageSize() int { return p.pageSize }

// fetchAll собирает все записи entity, фильтры передаются в params
func fetchAll[T any](ctx context.Context, p *Paginator, entity string, params url.Values) ([]T, error) {
	all := make([]T, 0)
	offset := 0

	for page := 0; ; page++ {
		if page >= p.maxPages {
			return nil, fmt.Errorf("%w: %s exceeded %d pages of %d records", models.ErrUpstreamPagination, entity, p.maxPages, p.pageSize)
		}

		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("limit", strconv.Itoa(p.pageSize))
		q.Set("offset", strconv.Itoa(offset))

		var batch []T
		if err := p.client.Get(ctx, entity, q, &batch); err != nil {
			return nil, err
		}
		metrics.UpstreamPages.WithLabelValues(entity).Inc()
		all = append(all, batch...)

		if len(batch) < p.pageSize {
			break
		}
		offset += p.pageSize
	}

	logging.Ctx(ctx).Debug().Str("entity", entity).Int("records", len(all)).Msg("paginated fetch complete")
	return all, nil
}
