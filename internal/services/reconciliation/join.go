package reconciliation

import (
	"sort"
	"strconv"
	"time"

	"grain-management-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Row tags. A harvest row is "matched" whether or not a delivery paired with
// it; "delivery-only" marks tickets that never showed up in the field data.
const (
	TagMatched      = "matched"
	TagDeliveryOnly = "delivery-only"
)

// DetailRow is one load key with both sides' figures where present and the
// delivery-minus-harvest differences.
type DetailRow struct {
	LoadKey string `json:"load_key"`
	Tag     string `json:"tag"`

	HarvestDate    *time.Time `json:"harvest_date"`
	HarvestMC      *float64   `json:"harvest_mc"`
	HarvestGross   *float64   `json:"harvest_gross"`
	HarvestTare    *float64   `json:"harvest_tare"`
	HarvestBushels *float64   `json:"harvest_bushels"`

	DeliveryDate    *time.Time `json:"delivery_date"`
	DeliveryMC      *float64   `json:"delivery_mc"`
	DeliveryGross   *float64   `json:"delivery_gross"`
	DeliveryTare    *float64   `json:"delivery_tare"`
	DeliveryBushels *float64   `json:"delivery_bushels"`
	UnitPrice       *float64   `json:"unit_price"`

	BushelDiff *float64 `json:"bushel_diff"`
	WeightDiff *float64 `json:"weight_diff"`
}

// buildDetail merges the two sides in one pass instead of unioning two
// one-sided queries: harvest rows are indexed by load key, delivery rows
// merge in by ticket-as-text, and leftover deliveries come out tagged
// delivery-only. Exactly-one-row-per-load is structural, not emergent.
func buildDetail(harvests []models.Harvest, deliveries []models.Delivery) []DetailRow {
	byTicket := make(map[string][]*models.Delivery, len(deliveries))
	for i := range deliveries {
		key := strconv.FormatInt(deliveries[i].TicketNumber, 10)
		byTicket[key] = append(byTicket[key], &deliveries[i])
	}

	harvestKeys := make(map[string]bool, len(harvests))
	rows := make([]DetailRow, 0, len(harvests)+len(deliveries))

	for i := range harvests {
		h := &harvests[i]
		harvestKeys[h.LoadNum] = true

		row := DetailRow{
			LoadKey:        h.LoadNum,
			Tag:            TagMatched,
			HarvestDate:    h.HarvestDate,
			HarvestMC:      h.MC,
			HarvestGross:   h.GrossWeight,
			HarvestTare:    ptr(h.TareWeight),
			HarvestBushels: h.DryBushels,
		}
		if ds := byTicket[h.LoadNum]; len(ds) > 0 {
			d := ds[0]
			row.DeliveryDate = ptr(d.DeliveryDate)
			row.DeliveryMC = d.MC
			row.DeliveryGross = d.GrossWeight
			row.DeliveryTare = d.TareWeight
			row.DeliveryBushels = d.Bushels
			row.UnitPrice = d.UnitPrice
		}
		row.BushelDiff = diff(row.DeliveryBushels, row.HarvestBushels)
		row.WeightDiff = diff(deliveryNet(row.DeliveryGross, row.DeliveryTare), harvestNet(h))
		rows = append(rows, row)
	}

	for i := range deliveries {
		d := &deliveries[i]
		key := strconv.FormatInt(d.TicketNumber, 10)
		if harvestKeys[key] {
			continue
		}
		row := DetailRow{
			LoadKey:         key,
			Tag:             TagDeliveryOnly,
			DeliveryDate:    ptr(d.DeliveryDate),
			DeliveryMC:      d.MC,
			DeliveryGross:   d.GrossWeight,
			DeliveryTare:    d.TareWeight,
			DeliveryBushels: d.Bushels,
			UnitPrice:       d.UnitPrice,
		}
		row.BushelDiff = diff(row.DeliveryBushels, nil)
		row.WeightDiff = diff(deliveryNet(row.DeliveryGross, row.DeliveryTare), nil)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].LoadKey < rows[j].LoadKey })
	return rows
}

func buildSummary(harvests []models.Harvest, deliveries []models.Delivery) Summary {
	var h sideTotals
	for i := range harvests {
		row := &harvests[i]
		h.loads++
		h.addMoisture(row.MC)
		if n := harvestNet(row); n != nil {
			h.netWeight = h.netWeight.Add(decimal.NewFromFloat(*n))
		}
		if row.DryBushels != nil {
			h.bushels = h.bushels.Add(decimal.NewFromFloat(*row.DryBushels))
		}
	}

	var d sideTotals
	grossSale := decimal.Zero
	discounts := decimal.Zero
	for i := range deliveries {
		row := &deliveries[i]
		d.loads++
		d.addMoisture(row.MC)
		if n := deliveryNet(row.GrossWeight, row.TareWeight); n != nil {
			d.netWeight = d.netWeight.Add(decimal.NewFromFloat(*n))
		}
		if row.Bushels != nil {
			d.bushels = d.bushels.Add(decimal.NewFromFloat(*row.Bushels))
		}
		if row.GrossSale != nil {
			grossSale = grossSale.Add(decimal.NewFromFloat(*row.GrossSale))
		}
		if row.Discounts != nil {
			discounts = discounts.Add(decimal.NewFromFloat(*row.Discounts))
		}
	}

	summary := Summary{
		Harvest: h.summary(),
		Delivery: DeliverySummary{
			SideSummary: d.summary(),
			GrossSale:   grossSale.Round(2).InexactFloat64(),
			Discounts:   discounts.Round(2).InexactFloat64(),
			NetSale:     grossSale.Sub(discounts).Round(2).InexactFloat64(),
		},
	}
	summary.BushelDiff = d.bushels.Sub(h.bushels).Round(2).InexactFloat64()
	summary.NetWeightDiff = d.netWeight.Sub(h.netWeight).Round(2).InexactFloat64()
	if hmc, dmc := h.avgMC(), d.avgMC(); hmc != nil && dmc != nil {
		v := decimal.NewFromFloat(*dmc).Sub(decimal.NewFromFloat(*hmc)).Round(2).InexactFloat64()
		summary.AvgMCDiff = &v
	}
	return summary
}

// harvestNet is gross minus tare; nil until a gross weight exists.
func harvestNet(h *models.Harvest) *float64 {
	if h.GrossWeight == nil {
		return nil
	}
	n := *h.GrossWeight - h.TareWeight
	return &n
}

// deliveryNet is gross minus tare with either side of the subtraction
// defaulting to zero; nil only when both are absent.
func deliveryNet(gross, tare *float64) *float64 {
	if gross == nil && tare == nil {
		return nil
	}
	g, t := 0.0, 0.0
	if gross != nil {
		g = *gross
	}
	if tare != nil {
		t = *tare
	}
	n := g - t
	return &n
}

// diff is delivery minus harvest, treating a single missing side as zero.
// Nil only when neither side contributes a figure.
func diff(delivery, harvest *float64) *float64 {
	if delivery == nil && harvest == nil {
		return nil
	}
	d, h := 0.0, 0.0
	if delivery != nil {
		d = *delivery
	}
	if harvest != nil {
		h = *harvest
	}
	v := decimal.NewFromFloat(d).Sub(decimal.NewFromFloat(h)).Round(2).InexactFloat64()
	return &v
}

func ptr[T any](v T) *T {
	return &v
}
