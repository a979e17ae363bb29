// Package agent implements the optional AI collaborators of the
// ledger: a transaction suggester that turns free text into a draft
// transaction proposal, and a financial advisor producing a short
// advice string. Both are backed by Gemini.
//
// The suggester never writes to the ledger: its output only pre-fills a
// normal record call, which still goes through full engine validation.
// All of its failures are recoverable; the caller falls back to manual
// entry.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	ledger "github.com/zenledger/zenledger"
)

// ModelName is the Gemini model used for both suggestions and advice.
const ModelName = "gemini-2.5-flash"

// Suggestion is a draft transaction proposed from free text. The user
// must still confirm it through the normal record path.
type Suggestion struct {
	Amount       decimal.Decimal
	Kind         ledger.FlowKind
	CategoryName string
	Note         string
	Date         time.Time
}

// suggestionSchema constrains the model to the draft shape. Amount,
// type and categoryName are required; note and date are optional.
var suggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"amount":       {Type: genai.TypeNumber},
		"type":         {Type: genai.TypeString, Enum: []string{"expense", "income"}},
		"categoryName": {Type: genai.TypeString},
		"note":         {Type: genai.TypeString},
		"date":         {Type: genai.TypeString},
	},
	Required: []string{"amount", "type", "categoryName"},
}

// ParseTransaction asks the model to extract a draft transaction from
// the input text. It returns an error when the model is unreachable or
// the response misses a required field; both are recoverable, the
// caller should suggest manual entry.
func ParseTransaction(ctx context.Context, client *genai.Client, input string) (*Suggestion, error) {
	prompt := fmt.Sprintf(`Extract transaction details from this text: %q.
Return a JSON object with:
- amount: number
- type: "expense" or "income"
- categoryName: string (guess a standard category like Dining, Transport, Shopping, etc.)
- note: string
- date: string (ISO 8601 format, default to today if not specified)
`, input)

	resp, err := client.Models.GenerateContent(ctx, ModelName, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   suggestionSchema,
		})
	if err != nil {
		return nil, fmt.Errorf("could not get a suggestion: %w", err)
	}
	raw := firstText(resp)
	if raw == "" {
		return nil, fmt.Errorf("empty suggestion response")
	}
	return decodeSuggestion([]byte(raw), time.Now())
}

// rawSuggestion mirrors the JSON shape the model is asked for.
type rawSuggestion struct {
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
	CategoryName string  `json:"categoryName"`
	Note         string  `json:"note"`
	Date         string  `json:"date"`
}

// decodeSuggestion validates a raw model response. Missing required
// fields are a hard failure; missing optional fields default sensibly.
func decodeSuggestion(raw []byte, now time.Time) (*Suggestion, error) {
	var r rawSuggestion
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("malformed suggestion: %w", err)
	}
	if r.Amount <= 0 {
		return nil, fmt.Errorf("suggestion misses a positive amount")
	}
	kind, err := ledger.ParseFlowKind(r.Type)
	if err != nil || kind == ledger.Transfer {
		return nil, fmt.Errorf("suggestion misses a valid type: %q", r.Type)
	}
	if strings.TrimSpace(r.CategoryName) == "" {
		return nil, fmt.Errorf("suggestion misses a category name")
	}
	s := &Suggestion{
		Amount:       decimal.NewFromFloat(r.Amount),
		Kind:         kind,
		CategoryName: strings.TrimSpace(r.CategoryName),
		Note:         r.Note,
		Date:         now,
	}
	if r.Date != "" {
		if t, err := time.Parse(time.RFC3339, r.Date); err == nil {
			s.Date = t
		}
	}
	return s, nil
}

// MatchCategory resolves a suggested category name against the
// partition's categories, best effort: exact case-insensitive match
// first, then substring containment either way. The flow kind must
// agree. A failed match leaves the category unset and is not an error.
func MatchCategory(name string, kind ledger.FlowKind, cats []ledger.Category) (ledger.Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ledger.Category{}, false
	}
	for _, c := range cats {
		if c.Kind == kind && strings.ToLower(c.Name) == name {
			return c, true
		}
	}
	for _, c := range cats {
		if c.Kind != kind {
			continue
		}
		cn := strings.ToLower(c.Name)
		if strings.Contains(cn, name) || strings.Contains(name, cn) {
			return c, true
		}
	}
	return ledger.Category{}, false
}

// firstText returns the first text part of a response, or "".
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text
		}
	}
	return ""
}
