package reporting

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/levanduc/crypto-signal-bot/internal/history"
)

// DailySummary aggregates one trading day from the trade ledger.
type DailySummary struct {
	Day           time.Time
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	OpenTrades    int
	RealizedPnL   float64
	BestTrade     float64
	WorstTrade    float64
}

// DailyReporter builds end-of-day summaries from recorded trades.
type DailyReporter struct {
	store history.Store
}

func NewDailyReporter(store history.Store) *DailyReporter {
	return &DailyReporter{store: store}
}

// Summarize computes the summary for the day containing t.
func (r *DailyReporter) Summarize(ctx context.Context, t time.Time) (*DailySummary, error) {
	trades, err := r.store.TradesOn(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	summary := &DailySummary{Day: t.UTC().Truncate(24 * time.Hour), TotalTrades: len(trades)}
	closed := 0
	for _, trade := range trades {
		if trade.ClosedAt == nil {
			summary.OpenTrades++
			continue
		}
		summary.RealizedPnL += trade.RealizedPnL
		if trade.RealizedPnL >= 0 {
			summary.WinningTrades++
		} else {
			summary.LosingTrades++
		}
		if closed == 0 || trade.RealizedPnL > summary.BestTrade {
			summary.BestTrade = trade.RealizedPnL
		}
		if closed == 0 || trade.RealizedPnL < summary.WorstTrade {
			summary.WorstTrade = trade.RealizedPnL
		}
		closed++
	}
	return summary, nil
}

// PrintConsole renders the summary as a rounded table on stdout.
func (r *DailyReporter) PrintConsole(summary *DailySummary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("DAILY REPORT " + summary.Day.Format("2006-01-02"))
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🔄 Total Trades", fmt.Sprintf("%d", summary.TotalTrades)},
		{"✅ Winning Trades", fmt.Sprintf("%d", summary.WinningTrades)},
		{"❌ Losing Trades", fmt.Sprintf("%d", summary.LosingTrades)},
		{"⏳ Still Open", fmt.Sprintf("%d", summary.OpenTrades)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"💰 Realized PnL", fmt.Sprintf("$%.2f", summary.RealizedPnL)},
		{"📈 Best Trade", fmt.Sprintf("$%.2f", summary.BestTrade)},
		{"📉 Worst Trade", fmt.Sprintf("$%.2f", summary.WorstTrade)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 15, WidthMax: 25, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// FormatMessage renders the summary as a Telegram-friendly text block.
func (r *DailyReporter) FormatMessage(summary *DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Daily Report %s*\n\n", summary.Day.Format("2006-01-02"))
	fmt.Fprintf(&b, "Trades: %d (%d wins / %d losses, %d open)\n",
		summary.TotalTrades, summary.WinningTrades, summary.LosingTrades, summary.OpenTrades)
	fmt.Fprintf(&b, "Realized PnL: $%.2f\n", summary.RealizedPnL)
	if summary.TotalTrades > 0 {
		fmt.Fprintf(&b, "Best: $%.2f / Worst: $%.2f\n", summary.BestTrade, summary.WorstTrade)
	}
	return b.String()
}
