package reconciliation

import (
	"fmt"
	"time"

	"grain-management-backend/internal/config"
	"grain-management-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service compares what was harvested against what was delivered/sold over a
// date range. The harvest side is owned by ingestion; the delivery side is
// read-only input from the sale-entry workflow.
type Service struct {
	harvestRepo  *repository.HarvestRepository
	deliveryRepo *repository.DeliveryRepository
	log          *logrus.Logger
}

func NewService(
	harvestRepo *repository.HarvestRepository,
	deliveryRepo *repository.DeliveryRepository,
	logger *logrus.Logger,
) *Service {
	return &Service{harvestRepo: harvestRepo, deliveryRepo: deliveryRepo, log: logger}
}

// SideSummary aggregates one side of the comparison.
type SideSummary struct {
	Loads     int      `json:"loads"`
	AvgMC     *float64 `json:"avg_mc"`
	NetWeight float64  `json:"net_weight"`
	Bushels   float64  `json:"bushels"`
}

// DeliverySummary adds the monetary totals only the sale side carries.
type DeliverySummary struct {
	SideSummary
	GrossSale float64 `json:"gross_sale"`
	Discounts float64 `json:"discounts"`
	NetSale   float64 `json:"net_sale"`
}

// Summary reports both sides plus their differences (delivery - harvest). A
// non-zero difference points at spillage, misrecording, or in-transit shrink.
type Summary struct {
	Harvest       SideSummary     `json:"harvest"`
	Delivery      DeliverySummary `json:"delivery"`
	BushelDiff    float64         `json:"bushel_diff"`
	NetWeightDiff float64         `json:"net_weight_diff"`
	AvgMCDiff     *float64        `json:"avg_mc_diff"`
}

// Result is the full reconciliation output: summary plus the per-load detail
// ordered by load key.
type Result struct {
	Summary Summary     `json:"summary"`
	Detail  []DetailRow `json:"detail"`
}

// Reconcile runs the summary and detail stages for the inclusive date range,
// optionally restricted to one crop.
func (s *Service) Reconcile(start, end time.Time, cropID *uuid.UUID) (*Result, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	harvests, err := s.harvestRepo.ListInRange(start, end, cropID)
	if err != nil {
		config.LogError(s.log, "reconciliation", "Reconcile", "load harvest side", err)
		return nil, err
	}
	deliveries, err := s.deliveryRepo.ListInRange(start, end, cropID)
	if err != nil {
		config.LogError(s.log, "reconciliation", "Reconcile", "load delivery side", err)
		return nil, err
	}

	result := &Result{
		Summary: buildSummary(harvests, deliveries),
		Detail:  buildDetail(harvests, deliveries),
	}

	s.log.WithFields(logrus.Fields{
		"start":          start.Format("2006-01-02"),
		"end":            end.Format("2006-01-02"),
		"harvest_loads":  result.Summary.Harvest.Loads,
		"delivery_loads": result.Summary.Delivery.Loads,
		"bushel_diff":    result.Summary.BushelDiff,
	}).Info("reconciliation computed")

	return result, nil
}

type sideTotals struct {
	loads     int
	mcSum     decimal.Decimal
	mcCount   int
	netWeight decimal.Decimal
	bushels   decimal.Decimal
}

func (t *sideTotals) addMoisture(mc *float64) {
	if mc != nil {
		t.mcSum = t.mcSum.Add(decimal.NewFromFloat(*mc))
		t.mcCount++
	}
}

func (t *sideTotals) avgMC() *float64 {
	if t.mcCount == 0 {
		return nil
	}
	v := t.mcSum.Div(decimal.NewFromInt(int64(t.mcCount))).Round(2).InexactFloat64()
	return &v
}

func (t *sideTotals) summary() SideSummary {
	return SideSummary{
		Loads:     t.loads,
		AvgMC:     t.avgMC(),
		NetWeight: t.netWeight.Round(2).InexactFloat64(),
		Bushels:   t.bushels.Round(2).InexactFloat64(),
	}
}
