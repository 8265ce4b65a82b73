// Package report derives the read-side views: KPI counters, the repair
// pipeline, daily removal trends, and the audit listing. Nothing is stored;
// every call recomputes from the tables.
package report

import (
	"context"
	"sort"

	"github.com/adnair/paneltrack/internal/domain"
)

// inventoryReader is the subset of store.InventoryStore reports need.
type inventoryReader interface {
	Reload() error
	List() []domain.Asset
}

// historyReader is the subset of store.HistoryStore reports need.
type historyReader interface {
	Reload() error
	All() []domain.Transaction
}

// fleetReader is the subset of masterlist.PanelIDs reports need.
type fleetReader interface {
	Reload() error
	Count() int
}

type Service struct {
	inventory inventoryReader
	history   historyReader
	fleet     fleetReader
}

func NewService(inventory inventoryReader, history historyReader, fleet fleetReader) *Service {
	return &Service{inventory: inventory, history: history, fleet: fleet}
}

// KPIs is the counter bar: fleet size from the master list, current counts
// from the inventory snapshot.
type KPIs struct {
	FleetTotal int            `json:"fleet_total"`
	ByStatus   map[string]int `json:"by_status"`
}

func (s *Service) KPIs(ctx context.Context) (*KPIs, error) {
	if err := s.inventory.Reload(); err != nil {
		return nil, err
	}
	if err := s.fleet.Reload(); err != nil {
		return nil, err
	}

	k := &KPIs{FleetTotal: s.fleet.Count(), ByStatus: map[string]int{}}
	for _, a := range s.inventory.List() {
		k.ByStatus[string(a.Status)]++
	}
	return k, nil
}

// RepairPipeline counts Under-Repair assets per repair stage.
func (s *Service) RepairPipeline(ctx context.Context) (map[string]int, error) {
	if err := s.inventory.Reload(); err != nil {
		return nil, err
	}

	pipeline := map[string]int{}
	for _, a := range s.inventory.List() {
		if a.Status == domain.StatusUnderRepair {
			pipeline[string(a.SubStatus)]++
		}
	}
	return pipeline, nil
}

// TrendPoint is one (day, category) bucket of removal activity.
type TrendPoint struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// RemovalTrend buckets Remove transactions per day and failure category,
// sorted by date then category.
func (s *Service) RemovalTrend(ctx context.Context) ([]TrendPoint, error) {
	if err := s.history.Reload(); err != nil {
		return nil, err
	}

	type bucket struct{ date, category string }
	counts := map[bucket]int{}
	for _, tx := range s.history.All() {
		if tx.Action != domain.ActionRemove {
			continue
		}
		counts[bucket{tx.Timestamp.Format("2006-01-02"), tx.Category}]++
	}

	points := make([]TrendPoint, 0, len(counts))
	for b, n := range counts {
		points = append(points, TrendPoint{Date: b.date, Category: b.category, Count: n})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Date != points[j].Date {
			return points[i].Date < points[j].Date
		}
		return points[i].Category < points[j].Category
	})
	return points, nil
}

// Audit returns the full history log, newest first.
func (s *Service) Audit(ctx context.Context) ([]domain.Transaction, error) {
	if err := s.history.Reload(); err != nil {
		return nil, err
	}

	rows := s.history.All()
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}
