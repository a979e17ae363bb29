package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// AdviceFallback is returned whenever no advice can be generated.
const AdviceFallback = "No advice available right now. Try again later."

// Advise asks the model for a short piece of financial advice based on
// the monthly totals and the top expense categories. It never fails:
// when the model is unreachable the fixed fallback message is returned.
func Advise(ctx context.Context, client *genai.Client, income, expense decimal.Decimal, topCategories []string) string {
	prompt := fmt.Sprintf(`This month I spent %s and earned %s. My main expense categories are: %s.
Give me one short piece of financial advice (2 sentences at most). Be encouraging and practical.`,
		expense, income, strings.Join(topCategories, ", "))

	resp, err := client.Models.GenerateContent(ctx, ModelName, genai.Text(prompt), nil)
	if err != nil {
		return AdviceFallback
	}
	if text := firstText(resp); text != "" {
		return strings.TrimSpace(text)
	}
	return AdviceFallback
}
