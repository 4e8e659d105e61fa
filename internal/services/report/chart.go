// Package report renders display artifacts for a loaded profile.
package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/folioapp/folio-go/internal/models"
)

// RenderGoalProgressChart renders a PNG bar chart of investment-goal
// progress: the amount saved toward the target against what remains. The
// progress percentage comes from the server and is only clamped for
// rendering, never recomputed. Returns raw PNG bytes.
func RenderGoalProgressChart(p *models.Profile, currency string) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("no profile to chart")
	}
	if p.GoalTargetAmount <= 0 {
		return nil, fmt.Errorf("profile has no goal target amount")
	}

	pct := p.BoundedProgress()
	saved := p.GoalTargetAmount * pct / 100
	remaining := p.GoalTargetAmount - saved

	title := fmt.Sprintf("%s — %.1f%%", goalTitle(p), pct)
	if p.IsGoalOverdue {
		title += " (Overdue)"
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    600,
		Height:   400,
		BarWidth: 120,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%s %.0f", currency, f)
				}
				return ""
			},
			Range: &chart.ContinuousRange{Min: 0, Max: p.GoalTargetAmount},
		},
		Bars: []chart.Value{
			{
				Label: "Saved",
				Value: saved,
				Style: chart.Style{
					FillColor:   drawing.ColorFromHex("16a34a"), // green-600
					StrokeColor: drawing.ColorFromHex("16a34a"),
				},
			},
			{
				Label: "Remaining",
				Value: remaining,
				Style: chart.Style{
					FillColor:   drawing.ColorFromHex("9ca3af"), // gray-400
					StrokeColor: drawing.ColorFromHex("9ca3af"),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

func goalTitle(p *models.Profile) string {
	switch p.InvestmentGoal {
	case models.GoalRetirement:
		return "Retirement Goal"
	case models.GoalHouse:
		return "House Goal"
	case models.GoalEducation:
		return "Education Goal"
	case models.GoalWealthBuilding:
		return "Wealth Building Goal"
	case models.GoalPassiveIncome:
		return "Passive Income Goal"
	}
	return "Investment Goal"
}
