package notifier

import (
	"fmt"
	"strings"
	"time"

	"TradeOracle/internal/model"
)

// FormatAlert formats a high-confidence prediction alert.
func FormatAlert(res *model.PredictionResult) string {
	var b strings.Builder
	b.WriteString("🚨 <b>ALERT</b> 🚨\n")
	b.WriteString(fmt.Sprintf("Symbol: %s\n", res.Symbol))
	if res.Buy {
		b.WriteString("Signal: 📈 BUY\n")
	} else {
		b.WriteString("Signal: 📉 SELL\n")
	}
	b.WriteString(fmt.Sprintf("Current: %.2f\n", res.CurrentPrice))
	b.WriteString(fmt.Sprintf("Target: %.2f\n", res.TargetPrice))
	b.WriteString(fmt.Sprintf("Confidence: %.2f%%", res.Confidence))
	return b.String()
}

// FormatPrediction formats a full prediction report.
func FormatPrediction(res *model.PredictionResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %dd horizon\n\n", res.Symbol, res.HorizonDays))

	if res.Buy {
		b.WriteString(fmt.Sprintf("📈 Buy signal, %.2f%% confidence\n", res.Confidence))
	} else {
		b.WriteString(fmt.Sprintf("📉 Sell signal, %.2f%% confidence\n", res.Confidence))
	}
	b.WriteString(fmt.Sprintf("📍 Current: %.2f\n", res.CurrentPrice))
	b.WriteString(fmt.Sprintf("🎯 Target: %.2f\n", res.TargetPrice))
	b.WriteString(fmt.Sprintf("📊 Range: %.2f – %.2f\n", res.Low, res.High))

	if len(res.Forecast) > 0 {
		b.WriteString("\nForecast:\n")
		for i, p := range res.Forecast {
			b.WriteString(fmt.Sprintf("  day %d: %.2f\n", i+1, p))
		}
	}
	if res.IsNewListing == model.TriTrue {
		b.WriteString("\n⚠️ New listing: limited history\n")
	}
	if !res.Recorded {
		b.WriteString("\n⚠️ Not recorded to the prediction log\n")
	}
	return b.String()
}

// FormatOpportunities formats a bounce-back opportunity list.
func FormatOpportunities(recs []model.PredictionRecord) string {
	if len(recs) == 0 {
		return "No bounce-back opportunities detected at the moment."
	}
	var b strings.Builder
	b.WriteString("📉 <b>Bounce-Back Opportunities</b>\n\n")
	for _, rec := range recs {
		b.WriteString(formatRecord(rec))
	}
	return b.String()
}

// FormatTopSignals formats the day's best signals.
func FormatTopSignals(recs []model.PredictionRecord) string {
	if len(recs) == 0 {
		return "No signals recorded today."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏆 <b>Top Signals</b> | %s\n\n", time.Now().Format("2006-01-02")))
	for _, rec := range recs {
		b.WriteString(formatRecord(rec))
	}
	return b.String()
}

func formatRecord(rec model.PredictionRecord) string {
	return fmt.Sprintf("• <b>%s</b>  %.2f → %.2f  (%.1f%%)  %s\n",
		rec.Name, rec.CurrentPrice, rec.TargetPrice, rec.Confidence,
		rec.Timestamp.Format("01-02 15:04"))
}
