package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/etnz/mileage"
	"google.golang.org/genai"
)

// extraction turns pasted statement text into a parsed batch. The model is
// held to a JSON response schema so the output is decodable, never prose.

const extractInstruction = `
You extract airline loyalty statement data. The input is text pasted from a
frequent-flyer statement or activity export (any language, any layout).

Extract every flight segment with its date, route (ORIGIN-DEST, 3-letter IATA
codes), marketing airline code, cabin, miles earned, XP earned, SAF bonus XP
and UXP when shown. Extract monthly miles activity (subscription, card
purchases, other credits, miles spent) bucketed by calendar month YYYY-MM.
Extract the qualification cycle information when the statement shows it:
cycle start month, current status, XP counter. Extract any one-off bonus
points by month and any explicit correction or status-reset event.

Never invent a value: omit what the statement does not show. Dates are
YYYY-MM-DD, months are YYYY-MM.
`

// batchSchema constrains the extraction output to the parsed batch shape.
var batchSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"flights": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date":        {Type: genai.TypeString, Description: "Flight date, YYYY-MM-DD."},
					"route":       {Type: genai.TypeString, Description: "ORIGIN-DEST, 3-letter IATA codes."},
					"airline":     {Type: genai.TypeString, Description: "Marketing carrier code, e.g. AF."},
					"cabin":       {Type: genai.TypeString},
					"earnedMiles": {Type: genai.TypeNumber},
					"earnedXP":    {Type: genai.TypeNumber},
					"safXP":       {Type: genai.TypeNumber, Description: "Bonus XP from a sustainable fuel surcharge."},
					"uxp":         {Type: genai.TypeNumber, Description: "Ultimate XP, only shown for eligible carriers."},
				},
				Required: []string{"date", "route"},
			},
		},
		"monthlyMilesRecords": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"month":             {Type: genai.TypeString, Description: "Calendar month, YYYY-MM."},
					"milesSubscription": {Type: genai.TypeNumber},
					"milesCard":         {Type: genai.TypeNumber},
					"milesOther":        {Type: genai.TypeNumber},
					"milesDebit":        {Type: genai.TypeNumber, Description: "Miles spent, positive magnitude."},
					"costSubscription":  {Type: genai.TypeNumber},
					"costCard":          {Type: genai.TypeNumber},
					"costOther":         {Type: genai.TypeNumber},
				},
				Required: []string{"month"},
			},
		},
		"cycleSettings": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"cycleStartMonth": {Type: genai.TypeNumber, Description: "Calendar month number the qualification cycle starts in, 1-12."},
				"cycleStartDate":  {Type: genai.TypeString, Description: "YYYY-MM-DD, when shown."},
				"startingStatus":  {Type: genai.TypeString, Description: "explorer, silver, gold, platinum or ultimate."},
				"startingXP":      {Type: genai.TypeNumber},
			},
		},
		"bonusPointsByMonth": {
			Type:        genai.TypeObject,
			Description: "One-off bonus XP keyed by month YYYY-MM.",
		},
		"pointCorrection": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"month":  {Type: genai.TypeString, Description: "YYYY-MM."},
				"amount": {Type: genai.TypeNumber, Description: "Signed; negative for a reset."},
				"reason": {Type: genai.TypeString},
			},
			Required: []string{"month", "amount"},
		},
	},
}

// rawBatch is the extraction output before normalization.
type rawBatch struct {
	Flights            []mileage.RawFlight         `json:"flights"`
	MilesRecords       []mileage.RawMilesRecord    `json:"monthlyMilesRecords"`
	Settings           *mileage.RawSettings        `json:"cycleSettings"`
	BonusPointsByMonth mileage.RawBonusPoints      `json:"bonusPointsByMonth"`
	Correction         *mileage.RawPointCorrection `json:"pointCorrection"`
}

// Extract sends pasted statement text to the model and returns the parsed
// batch. Every failure comes back as a *mileage.BatchError; this boundary
// never panics.
func Extract(ctx context.Context, client *genai.Client, model, text string) (*mileage.ParsedBatch, error) {
	if strings.TrimSpace(text) == "" {
		return nil, mileage.NewBatchError(mileage.BatchValidation, "empty statement text")
	}
	if model == "" {
		model = DefaultModel
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		ResponseSchema:    batchSchema,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: extractInstruction}}},
	})
	if err != nil {
		return nil, asBatchError(err)
	}

	var raw rawBatch
	if err := json.Unmarshal([]byte(resp.Text()), &raw); err != nil {
		return nil, mileage.NewBatchError(mileage.BatchExtraction, "model output is not decodable: %v", err)
	}
	return normalizeBatch(&raw, "extract")
}

// normalizeBatch converts the raw extraction into a canonical batch.
func normalizeBatch(raw *rawBatch, source string) (*mileage.ParsedBatch, error) {
	batch := &mileage.ParsedBatch{Source: source}
	now := time.Now()

	for i, rf := range raw.Flights {
		f, err := rf.Normalize(source, now)
		if err != nil {
			return nil, mileage.NewBatchError(mileage.BatchValidation, "flight %d: %v", i+1, err)
		}
		batch.Flights = append(batch.Flights, f)
	}
	for i, rm := range raw.MilesRecords {
		rec, err := rm.Normalize()
		if err != nil {
			return nil, mileage.NewBatchError(mileage.BatchValidation, "miles record %d: %v", i+1, err)
		}
		batch.MilesRecords = append(batch.MilesRecords, rec)
	}
	if raw.Settings != nil {
		s, err := raw.Settings.Normalize()
		if err != nil {
			return nil, mileage.NewBatchError(mileage.BatchValidation, "cycle settings: %v", err)
		}
		batch.Settings = &s
	}
	bonus, err := raw.BonusPointsByMonth.Normalize()
	if err != nil {
		return nil, mileage.NewBatchError(mileage.BatchValidation, "%v", err)
	}
	batch.BonusPointsByMonth = bonus
	if raw.Correction != nil {
		c, err := raw.Correction.Normalize()
		if err != nil {
			return nil, mileage.NewBatchError(mileage.BatchValidation, "%v", err)
		}
		batch.Correction = &c
	}
	return batch, nil
}

// asBatchError maps a transport or API failure onto the closed code set.
func asBatchError(err error) *mileage.BatchError {
	var be *mileage.BatchError
	if errors.As(err, &be) {
		return be
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return mileage.NewBatchError(mileage.BatchTimeout, "extraction timed out: %v", err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return mileage.NewBatchError(mileage.BatchRateLimit, "%v", err)
		case apiErr.Code >= 500:
			return mileage.NewBatchError(mileage.BatchNetwork, "%v", err)
		default:
			return mileage.NewBatchError(mileage.BatchExtraction, "%v", err)
		}
	}
	return mileage.NewBatchError(mileage.BatchNetwork, "%v", err)
}
