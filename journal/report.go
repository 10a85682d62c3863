package journal

import (
	"io"
	"text/template"

	"github.com/solhart/momentum/backtest"
)

var reportFuncs = template.FuncMap{
	"ratio": func(r backtest.Ratio) string { return formatRatio(r) },
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportText))

// WriteReport renders the plain-text run summary.
func WriteReport(w io.Writer, res *backtest.Result) error {
	return reportTmpl.Execute(w, res)
}

const reportText = `==================================================
BACKTEST RESULTS: {{.Symbol}} ({{.Timeframe}})
==================================================
{{- if not .Success}}
FAILED: {{.Error}}
{{- else}}
Initial Capital:  {{printf "%.2f" .InitialCapital}}
Final Capital:    {{printf "%.2f" .FinalCapital}}
Total Return:     {{printf "%.2f" .TotalReturn}}%
Total PnL:        {{printf "%.2f" .TotalPnL}}

Total Trades:     {{.TotalTrades}}
Winning Trades:   {{.WinningTrades}}
Losing Trades:    {{.LosingTrades}}
Win Rate:         {{printf "%.2f" .WinRate}}%

Avg Win:          {{printf "%.2f" .AvgWin}}
Avg Loss:         {{printf "%.2f" .AvgLoss}}
Profit Factor:    {{ratio .ProfitFactor}}
Avg Risk:Reward:  {{printf "%.2f" .AvgRiskReward}}
Max Drawdown:     {{printf "%.2f" .MaxDrawdown}}%

Take Profit Hits: {{.TPTrades}}
Stop Loss Hits:   {{.SLTrades}}
Best Trade:       {{printf "%.2f" .BestTrade}}
Worst Trade:      {{printf "%.2f" .WorstTrade}}

Long Trades:      {{.LongTrades}} (win rate {{printf "%.2f" .LongWinRate}}%)
Short Trades:     {{.ShortTrades}} (win rate {{printf "%.2f" .ShortWinRate}}%)
{{- end}}
==================================================
`
