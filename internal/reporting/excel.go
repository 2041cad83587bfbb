package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/levanduc/crypto-signal-bot/internal/history"
)

// ExcelExporter writes recorded trades to an xlsx workbook.
type ExcelExporter struct {
	store history.Store
}

func NewExcelExporter(store history.Store) *ExcelExporter {
	return &ExcelExporter{store: store}
}

// DefaultExportPath builds the output filename for a given day.
func DefaultExportPath(day time.Time) string {
	return filepath.Join("results", fmt.Sprintf("trades_%s.xlsx", day.Format("2006-01-02")))
}

// ExportDay writes all trades executed on the day containing t to path.
func (e *ExcelExporter) ExportDay(ctx context.Context, t time.Time, path string) error {
	trades, err := e.store.TradesOn(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to load trades: %w", err)
	}

	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Trades"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	headerStyle, currencyStyle, err := e.createStyles(fx)
	if err != nil {
		return err
	}

	headers := []string{"#", "Signal ID", "Order ID", "Symbol", "Side", "Profile",
		"Quantity", "Leverage", "Entry Price", "Stop Loss", "Take Profit",
		"Realized PnL", "Executed At", "Closed At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, trade := range trades {
		closedAt := ""
		if trade.ClosedAt != nil {
			closedAt = trade.ClosedAt.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			row + 1,
			trade.SignalID,
			trade.OrderID,
			trade.Symbol,
			trade.Side,
			trade.Profile,
			trade.Quantity,
			trade.Leverage,
			trade.EntryPrice,
			trade.StopLoss,
			trade.TakeProfit,
			trade.RealizedPnL,
			trade.ExecutedAt.Format("2006-01-02 15:04:05"),
			closedAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			fx.SetCellValue(sheet, cell, v)
		}
		// Currency columns: entry, stop, take profit, pnl
		for _, col := range []int{9, 10, 11, 12} {
			cell, _ := excelize.CoordinatesToCellName(col, row+2)
			fx.SetCellStyle(sheet, cell, cell, currencyStyle)
		}
	}

	fx.SetColWidth(sheet, "B", "C", 26)
	fx.SetColWidth(sheet, "D", "F", 14)
	fx.SetColWidth(sheet, "G", "L", 12)
	fx.SetColWidth(sheet, "M", "N", 20)

	return fx.SaveAs(path)
}

func (e *ExcelExporter) createStyles(fx *excelize.File) (header, currency int, err error) {
	header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return 0, 0, err
	}

	currency, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return 0, 0, err
	}
	return header, currency, nil
}
