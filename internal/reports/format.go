package reports

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/nanoerp/nanoerp/internal/settings"
)

const fallbackCurrencySymbol = "₹"

// formatter renders monetary values with the configured currency symbol and
// locale-aware digit grouping.
type formatter struct {
	printer *message.Printer
	symbol  string
}

func newFormatter(ctx context.Context, store *settings.Store) formatter {
	return formatter{
		printer: message.NewPrinter(language.English),
		symbol:  store.Get(ctx, settings.KeyCurrencySymbol, fallbackCurrencySymbol),
	}
}

func (f formatter) money(v float64) string {
	return f.printer.Sprintf("%s%v", f.symbol,
		number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
