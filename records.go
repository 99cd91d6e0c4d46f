package mileage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/mileage/date"
	"github.com/shopspring/decimal"
)

// MonthlyMilesRecord aggregates one calendar month of miles activity,
// partitioned by source. Debit is the burn, stored as a positive magnitude
// and subtracted from the balance.
//
// MilesFlight and CostFlight are derived from the flight list: they are never
// edited directly, only re-derived by Rebuild. CostFlight is always zero,
// flight miles carry no acquisition cost.
type MonthlyMilesRecord struct {
	Month             date.Month      `json:"month"`
	MilesSubscription int             `json:"milesSubscription,omitempty"`
	MilesCard         int             `json:"milesCard,omitempty"`
	MilesFlight       int             `json:"milesFlight,omitempty"`
	MilesOther        int             `json:"milesOther,omitempty"`
	MilesDebit        int             `json:"milesDebit,omitempty"`
	CostSubscription  decimal.Decimal `json:"costSubscription"`
	CostCard          decimal.Decimal `json:"costCard"`
	CostFlight        decimal.Decimal `json:"costFlight"`
	CostOther         decimal.Decimal `json:"costOther"`
}

// NetMiles returns the month's contribution to the miles balance.
func (r MonthlyMilesRecord) NetMiles() int {
	return r.MilesSubscription + r.MilesCard + r.MilesFlight + r.MilesOther - r.MilesDebit
}

// TotalCost returns the month's total acquisition cost.
func (r MonthlyMilesRecord) TotalCost() decimal.Decimal {
	return r.CostSubscription.Add(r.CostCard).Add(r.CostFlight).Add(r.CostOther)
}

func (r MonthlyMilesRecord) Equal(o MonthlyMilesRecord) bool {
	return r.Month == o.Month &&
		r.MilesSubscription == o.MilesSubscription &&
		r.MilesCard == o.MilesCard &&
		r.MilesFlight == o.MilesFlight &&
		r.MilesOther == o.MilesOther &&
		r.MilesDebit == o.MilesDebit &&
		r.CostSubscription.Equal(o.CostSubscription) &&
		r.CostCard.Equal(o.CostCard) &&
		r.CostFlight.Equal(o.CostFlight) &&
		r.CostOther.Equal(o.CostOther)
}

// Validate checks the record fields.
func (r MonthlyMilesRecord) Validate() (MonthlyMilesRecord, error) {
	if r.Month.IsZero() {
		return r, errors.New("miles record needs a month")
	}
	if r.MilesSubscription < 0 || r.MilesCard < 0 || r.MilesFlight < 0 || r.MilesOther < 0 || r.MilesDebit < 0 {
		return r, fmt.Errorf("miles record %s must not hold negative miles", r.Month)
	}
	return r, nil
}

// RawMilesRecord is a monthly miles record as supplied by a parser
// collaborator, before normalization.
type RawMilesRecord struct {
	Month             string  `json:"month"`
	MilesSubscription float64 `json:"milesSubscription,omitempty"`
	MilesCard         float64 `json:"milesCard,omitempty"`
	MilesFlight       float64 `json:"milesFlight,omitempty"`
	MilesOther        float64 `json:"milesOther,omitempty"`
	MilesDebit        float64 `json:"milesDebit,omitempty"`
	CostSubscription  float64 `json:"costSubscription,omitempty"`
	CostCard          float64 `json:"costCard,omitempty"`
	CostFlight        float64 `json:"costFlight,omitempty"`
	CostOther         float64 `json:"costOther,omitempty"`
}

// Normalize converts the raw record into its canonical form. It fails only
// when the month key is unusable.
func (r RawMilesRecord) Normalize() (MonthlyMilesRecord, error) {
	m, err := date.ParseMonth(strings.TrimSpace(r.Month))
	if err != nil {
		return MonthlyMilesRecord{}, fmt.Errorf("miles record needs a month: %w", err)
	}
	rec := MonthlyMilesRecord{
		Month:             m,
		MilesSubscription: points(r.MilesSubscription),
		MilesCard:         points(r.MilesCard),
		MilesFlight:       points(r.MilesFlight),
		MilesOther:        points(r.MilesOther),
		MilesDebit:        points(r.MilesDebit),
		CostSubscription:  cost(r.CostSubscription),
		CostCard:          cost(r.CostCard),
		CostFlight:        cost(r.CostFlight),
		CostOther:         cost(r.CostOther),
	}
	return rec.Validate()
}

// cost converts an extracted numeric field to a monetary amount in the ledger
// currency.
func cost(v float64) decimal.Decimal {
	v = finite(v)
	if v < 0 {
		v = 0
	}
	return decimal.NewFromFloat(v).Round(2)
}

// ManualLedgerEntry holds one month of point adjustments that no transaction
// captures: card bonus points, fuel bonus points, miscellaneous points, and a
// signed correction absorbing status-reset or rollover events.
type ManualLedgerEntry struct {
	Month        date.Month `json:"month"`
	CardXP       int        `json:"cardXP,omitempty"`
	BonusFuelXP  int        `json:"bonusFuelXP,omitempty"`
	MiscXP       int        `json:"miscXP,omitempty"`
	CorrectionXP int        `json:"correctionXP,omitempty"`
}

// Total returns the entry's net qualifying points.
func (e ManualLedgerEntry) Total() int {
	return e.CardXP + e.BonusFuelXP + e.MiscXP + e.CorrectionXP
}

// IsZero reports whether the entry carries no points at all.
func (e ManualLedgerEntry) IsZero() bool {
	return e == ManualLedgerEntry{Month: e.Month}
}

// fold adds the other entry's points into e. Manual entries and parsed
// corrections are additive, never competing.
func (e ManualLedgerEntry) fold(o ManualLedgerEntry) ManualLedgerEntry {
	e.CardXP += o.CardXP
	e.BonusFuelXP += o.BonusFuelXP
	e.MiscXP += o.MiscXP
	e.CorrectionXP += o.CorrectionXP
	return e
}

// Validate checks the entry fields.
func (e ManualLedgerEntry) Validate() (ManualLedgerEntry, error) {
	if e.Month.IsZero() {
		return e, errors.New("manual entry needs a month")
	}
	if e.CardXP < 0 || e.BonusFuelXP < 0 {
		return e, fmt.Errorf("manual entry %s must not hold negative bonus points", e.Month)
	}
	return e, nil
}

// MonthlyPointsRecord is the per-month points aggregate of the computed
// ledger. It is fully derived from flights and never stored.
type MonthlyPointsRecord struct {
	Month    date.Month `json:"month"`
	FlightXP int        `json:"flightXP,omitempty"`
	SafXP    int        `json:"safXP,omitempty"`
	UXP      int        `json:"uxp,omitempty"`
}

// Total returns the month's qualifying XP from flights, SAF bonus included.
func (p MonthlyPointsRecord) Total() int { return p.FlightXP + p.SafXP }
