package notifier

import (
	"fmt"
	"html"
	"strings"

	"TrendCast/internal/calculator"
	"TrendCast/internal/forecast"
	"TrendCast/internal/model"
)

const (
	dateLayout  = "2006-01-02"
	smaPeriod   = 20
	rangeWindow = 252
)

// FormatForecastReport formats a forecast into a Telegram message.
func FormatForecastReport(f *model.Forecast) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s trend forecast</b> | %s\n\n", html.EscapeString(f.Symbol), f.GeneratedAt.Format(dateLayout)))

	closes := make([]float64, len(f.Historical))
	for i, h := range f.Historical {
		closes[i] = h.Close
	}
	b.WriteString(fmt.Sprintf("Last close: %.2f (%s)\n", f.LastClose, f.LastDate.Format(dateLayout)))
	if sma, err := calculator.CalculateSMA(closes, smaPeriod); err == nil {
		dev := (f.LastClose - sma) / sma * 100
		b.WriteString(fmt.Sprintf("SMA%d: %.2f (%+.1f%%)\n", smaPeriod, sma, dev))
	}
	if hi, lo, err := calculator.CalculateRange(closes, rangeWindow); err == nil {
		pos, _ := calculator.CalculateRangePosition(f.LastClose, hi, lo)
		b.WriteString(fmt.Sprintf("Range: %.2f - %.2f (at %.0f%%)\n", lo, hi, pos*100))
	}

	b.WriteString(fmt.Sprintf("\n📐 <b>Trend:</b> %+.4f / day\n", f.Model.Slope))
	b.WriteString(fmt.Sprintf("   trained on %d bars, checked on %d\n", f.TrainSize, f.HeldOutSize))
	b.WriteString(fmt.Sprintf("   std error: %.4f (z=%.2f, band ±%.2f)\n", f.Residuals.StdError, f.ConfidenceZ, f.BandWidth()/2))

	if len(f.Points) > 0 {
		first, last := f.Points[0], f.Points[len(f.Points)-1]
		b.WriteString(fmt.Sprintf("\n🔮 <b>%d day projection:</b>\n", len(f.Points)))
		b.WriteString(formatPoint(first))
		if len(f.Points) > 1 {
			b.WriteString(formatPoint(last))
		}
		change := (last.Predicted - f.LastClose) / f.LastClose * 100
		b.WriteString(fmt.Sprintf("   change vs last close: %+.1f%%\n", change))
	}
	return b.String()
}

func formatPoint(p model.ForecastPoint) string {
	return fmt.Sprintf("   %s: %.2f [%.2f, %.2f]\n", p.Date.Format(dateLayout), p.Predicted, p.Lower, p.Upper)
}

// FormatFailure explains why no forecast could be produced.
func FormatFailure(symbol string, err error) string {
	var hint string
	switch forecast.Reason(err) {
	case "empty_series":
		hint = "the provider returned no bars"
	case "insufficient_data":
		hint = "not enough history to fit and check a trend"
	case "invalid_bar":
		hint = "the provider returned malformed bars"
	case "degenerate_model":
		hint = "the fitted trend is not usable"
	case "invalid_options":
		hint = "the forecast settings are invalid"
	default:
		hint = "data could not be retrieved"
	}
	return fmt.Sprintf("❌ <b>%s forecast failed</b>: %s\n<code>%s</code>",
		html.EscapeString(symbol), hint, html.EscapeString(err.Error()))
}

// FormatNews lists stories as links.
func FormatNews(symbol string, stories []model.NewsStory) string {
	if len(stories) == 0 {
		return fmt.Sprintf("📰 No recent news for %s", html.EscapeString(symbol))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📰 <b>%s news</b>\n\n", html.EscapeString(symbol)))
	for _, s := range stories {
		title := html.EscapeString(s.Title)
		if s.URL != "" {
			title = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(s.URL), title)
		}
		b.WriteString(fmt.Sprintf("• %s %s", s.PublishedAt.Format(dateLayout), title))
		if s.Source != "" {
			b.WriteString(" (" + html.EscapeString(s.Source) + ")")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatWatchlist lists the configured symbols.
func FormatWatchlist(symbols []string) string {
	return "👀 <b>Watchlist</b>\n" + strings.Join(symbols, ", ")
}

// HelpText lists the supported commands.
func HelpText() string {
	return "Available commands:\n" +
		"• /forecast SYMBOL\n" +
		"• /news SYMBOL\n" +
		"• /watchlist"
}
