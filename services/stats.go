package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"quotebuilder/models"
)

// MonthStat aggregates the quotes issued in one calendar month.
type MonthStat struct {
	Month         string  `json:"mes"` // YYYY-MM
	Count         int     `json:"presupuestos"`
	Accepted      int     `json:"aceptados"`
	AcceptedTotal float64 `json:"totalAceptado"`
}

// ProductStat is the quantity of one catalog product across quotes.
type ProductStat struct {
	ProductID string `json:"productoId"`
	Name      string `json:"nombre"`
	Quantity  int    `json:"cantidad"`
	Lines     int    `json:"lineas"`
}

// QuoteStats is the dashboard summary.
type QuoteStats struct {
	Quotes        int           `json:"presupuestos"`
	Accepted      int           `json:"aceptados"`
	AcceptedTotal float64       `json:"totalAceptado"`
	ByMonth       []MonthStat   `json:"porMes"`
	TopProducts   []ProductStat `json:"productosTop"`
}

// issuedAt is the date the first version of q was written.
func issuedAt(q models.Quote) time.Time {
	if len(q.PriorVersions) > 0 {
		return q.PriorVersions[0].Date
	}
	return q.Date
}

// ComputeStats summarises the live records of quotes: count and accepted
// total per month of issue, and the topN catalog products by quantity.
// topN <= 0 returns every product.
func ComputeStats(quotes []models.Quote, topN int) QuoteStats {
	months := map[string]*MonthStat{}
	monthTotals := map[string]decimal.Decimal{}
	products := map[string]*ProductStat{}
	acceptedTotal := decimal.Zero

	var stats QuoteStats
	for _, q := range quotes {
		stats.Quotes++
		key := issuedAt(q).Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &MonthStat{Month: key}
			months[key] = m
		}
		m.Count++
		if q.Status == models.StatusAccepted {
			m.Accepted++
			stats.Accepted++
			monthTotals[key] = monthTotals[key].Add(decimal.NewFromFloat(q.Total))
			acceptedTotal = acceptedTotal.Add(decimal.NewFromFloat(q.Total))
		}

		for _, l := range q.Lines {
			if l.Kind != models.LineExisting || l.Product.ID == "" {
				continue
			}
			p, ok := products[l.Product.ID]
			if !ok {
				p = &ProductStat{ProductID: l.Product.ID, Name: l.Product.Name}
				products[l.Product.ID] = p
			}
			p.Quantity += l.Quantity
			p.Lines++
		}
	}

	stats.AcceptedTotal = toFloat(acceptedTotal)
	stats.ByMonth = make([]MonthStat, 0, len(months))
	for key, m := range months {
		m.AcceptedTotal = toFloat(monthTotals[key])
		stats.ByMonth = append(stats.ByMonth, *m)
	}
	sort.Slice(stats.ByMonth, func(i, j int) bool { return stats.ByMonth[i].Month < stats.ByMonth[j].Month })

	stats.TopProducts = make([]ProductStat, 0, len(products))
	for _, p := range products {
		stats.TopProducts = append(stats.TopProducts, *p)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		a, b := stats.TopProducts[i], stats.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.ProductID < b.ProductID
	})
	if topN > 0 && len(stats.TopProducts) > topN {
		stats.TopProducts = stats.TopProducts[:topN]
	}
	return stats
}

// Stats computes ComputeStats over the stored quotes.
func (s *QuoteService) Stats(ctx context.Context, topN int) (QuoteStats, error) {
	quotes, err := s.List(ctx)
	if err != nil {
		return QuoteStats{}, err
	}
	return ComputeStats(quotes, topN), nil
}
