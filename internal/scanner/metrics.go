package scanner

import (
	"math"

	"fundamental-scanner/internal/ta"
	"fundamental-scanner/internal/types"
)

// IndicatorParams configures the technical indicators computed from the
// price history.
type IndicatorParams struct {
	RSIPeriod int
	MAShort   int
	MALong    int
}

// Derived metric names. Percentages are on a 0-100 scale.
const (
	MetricPrice            = "price"
	MetricMarketCap        = "market_cap"
	MetricPE               = "pe"
	MetricForwardPE        = "forward_pe"
	MetricPEG              = "peg"
	MetricPriceToSales     = "p_s"
	MetricDividendYieldPct = "dividend_yield_pct"
	MetricBeta             = "beta"
	MetricHigh52w          = "fifty_two_week_high"
	MetricLow52w           = "fifty_two_week_low"
	MetricInsiderOwnPct    = "insider_ownership_pct"
	MetricGrossMarginPct   = "gross_margin_pct"
	MetricOpMarginPct      = "op_margin_pct"
	MetricNetMarginPct     = "net_margin_pct"
	MetricROEPct           = "roe_pct"
	MetricROAPct           = "roa_pct"
	MetricRevenueYoYPct    = "revenue_yoy_pct"
	MetricNetIncYoYPct     = "netinc_yoy_pct"
	MetricFCF              = "fcf"
	MetricFCFYieldPct      = "fcf_yield_pct"
	MetricDebtEquity       = "debt_equity"
	MetricNetDebt          = "net_debt"
	MetricNetDebtEBITDA    = "net_debt_ebitda"
	MetricInterestCoverage = "interest_coverage"
	MetricCurrentRatio     = "current_ratio"
	MetricRSI              = "rsi"
	MetricMAShort          = "ma_short"
	MetricMALong           = "ma_long"
)

// Statement line item aliases, tried in order, first present wins.
// Providers drift between title-case and camelCase line item names, so
// each logical quantity lists both.
var (
	aliasRevenue         = []string{"Total Revenue", "totalRevenue", "Revenue"}
	aliasNetIncome       = []string{"Net Income", "netIncome", "Net Income Common Stockholders"}
	aliasOperatingIncome = []string{"Operating Income", "operatingIncome"}
	aliasGrossProfit     = []string{"Gross Profit", "grossProfit"}
	aliasInterestExpense = []string{"Interest Expense", "interestExpense"}
	aliasEBITDA          = []string{"EBITDA", "ebitda", "Normalized EBITDA"}
	aliasTotalDebt       = []string{"Total Debt", "Short Long Term Debt", "shortLongTermDebt", "totalDebt"}
	aliasCash            = []string{"Cash", "cash", "Cash And Cash Equivalents", "cashAndCashEquivalents"}
	aliasTotalAssets     = []string{"Total Assets", "totalAssets"}
	aliasEquity          = []string{"Total Stockholder Equity", "totalStockholderEquity", "Stockholders Equity"}
	aliasCurrentAssets   = []string{"Total Current Assets", "totalCurrentAssets"}
	aliasCurrentLiab     = []string{"Total Current Liabilities", "totalCurrentLiabilities"}
	aliasCFO             = []string{"Total Cash From Operating Activities", "totalCashFromOperatingActivities", "Operating Cash Flow"}
	aliasCapex           = []string{"Capital Expenditures", "capitalExpenditures", "Capital Expenditure"}
)

// lineItemAt resolves a logical quantity from the idx-th period (0 =
// most recent). NaN when the period or every alias is absent.
func lineItemAt(periods []types.Period, idx int, aliases []string) float64 {
	if idx < 0 || idx >= len(periods) {
		return math.NaN()
	}
	for _, name := range aliases {
		if v, ok := periods[idx][name]; ok {
			return v
		}
	}
	return math.NaN()
}

func lineItem(periods []types.Period, aliases []string) float64 {
	return lineItemAt(periods, 0, aliases)
}

// safeDiv is NaN on a missing operand or zero denominator, never a panic.
func safeDiv(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) || b == 0 {
		return math.NaN()
	}
	return a / b
}

// pctChange is (latest-prev)/|prev| on a 0-100 scale, NaN when either
// value is missing or prev is zero.
func pctChange(latest, prev float64) float64 {
	if math.IsNaN(latest) || math.IsNaN(prev) || prev == 0 {
		return math.NaN()
	}
	return (latest - prev) / math.Abs(prev) * 100.0
}

func pctScale(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	return v * 100.0
}

// Derive computes every metric the scorer consumes from one ticker's raw
// bundle. Each derivation is independent: a missing input yields NaN for
// that metric only and never aborts the rest.
func Derive(raw types.RawTickerData, p IndicatorParams) map[string]float64 {
	m := make(map[string]float64, 32)

	fin := raw.Financial.Income
	bal := raw.Financial.Balance
	cf := raw.Financial.CashFlow

	revenue := lineItem(fin, aliasRevenue)
	netIncome := lineItem(fin, aliasNetIncome)
	opIncome := lineItem(fin, aliasOperatingIncome)
	grossProfit := lineItem(fin, aliasGrossProfit)
	interestExpense := lineItem(fin, aliasInterestExpense)

	totalDebt := lineItem(bal, aliasTotalDebt)
	cash := lineItem(bal, aliasCash)
	totalAssets := lineItem(bal, aliasTotalAssets)
	equity := lineItem(bal, aliasEquity)
	currentAssets := lineItem(bal, aliasCurrentAssets)
	currentLiab := lineItem(bal, aliasCurrentLiab)

	cfo := lineItem(cf, aliasCFO)
	capex := lineItem(cf, aliasCapex)

	marketCap := raw.Snapshot.Get("market_cap")
	ebitda := raw.Snapshot.Get("ebitda")
	if math.IsNaN(ebitda) {
		ebitda = lineItem(fin, aliasEBITDA)
	}

	// Snapshot pass-throughs.
	price := raw.Snapshot.Get("price")
	if math.IsNaN(price) && len(raw.History) > 0 {
		price = raw.History[len(raw.History)-1].Close
	}
	m[MetricPrice] = price
	m[MetricMarketCap] = marketCap
	m[MetricPE] = raw.Snapshot.Get("pe")
	m[MetricForwardPE] = raw.Snapshot.Get("forward_pe")
	m[MetricPEG] = raw.Snapshot.Get("peg")
	m[MetricPriceToSales] = raw.Snapshot.Get("p_s")
	m[MetricBeta] = raw.Snapshot.Get("beta")
	m[MetricHigh52w] = raw.Snapshot.Get("fifty_two_week_high")
	m[MetricLow52w] = raw.Snapshot.Get("fifty_two_week_low")
	m[MetricInsiderOwnPct] = pctScale(raw.Snapshot.Get("insider_ownership"))
	dy := pctScale(raw.Snapshot.Get("dividend_yield"))
	if math.IsNaN(dy) {
		dy = 0.0
	}
	m[MetricDividendYieldPct] = dy

	// Margins and returns.
	m[MetricGrossMarginPct] = pctScale(safeDiv(grossProfit, revenue))
	m[MetricOpMarginPct] = pctScale(safeDiv(opIncome, revenue))
	m[MetricNetMarginPct] = pctScale(safeDiv(netIncome, revenue))
	m[MetricROEPct] = pctScale(safeDiv(netIncome, equity))
	m[MetricROAPct] = pctScale(safeDiv(netIncome, totalAssets))

	// Leverage and liquidity.
	m[MetricDebtEquity] = safeDiv(totalDebt, equity)
	netDebt := math.NaN()
	if !math.IsNaN(totalDebt) && !math.IsNaN(cash) {
		netDebt = totalDebt - cash
	}
	m[MetricNetDebt] = netDebt
	m[MetricNetDebtEBITDA] = safeDiv(netDebt, ebitda)
	m[MetricInterestCoverage] = safeDiv(opIncome, math.Abs(interestExpense))
	m[MetricCurrentRatio] = safeDiv(currentAssets, currentLiab)

	// Cash flow. Capex is taken as reported: negative for outflows, so
	// FCF = CFO + capex. Both inputs must be present.
	fcf := math.NaN()
	if !math.IsNaN(cfo) && !math.IsNaN(capex) {
		fcf = cfo + capex
	}
	m[MetricFCF] = fcf
	m[MetricFCFYieldPct] = pctScale(safeDiv(fcf, marketCap))

	// Year-over-year growth needs two statement periods.
	m[MetricRevenueYoYPct] = pctChange(lineItemAt(fin, 0, aliasRevenue), lineItemAt(fin, 1, aliasRevenue))
	m[MetricNetIncYoYPct] = pctChange(lineItemAt(fin, 0, aliasNetIncome), lineItemAt(fin, 1, aliasNetIncome))

	// Technicals from the close series.
	closes := closePrices(raw.History)
	if len(closes) > 0 {
		m[MetricRSI] = ta.RSI(closes, p.RSIPeriod)
		m[MetricMAShort] = ta.SMA(closes, p.MAShort)
		m[MetricMALong] = ta.SMA(closes, p.MALong)
	} else {
		m[MetricRSI] = math.NaN()
		m[MetricMAShort] = math.NaN()
		m[MetricMALong] = math.NaN()
	}

	return m
}

func closePrices(bars []types.Bar) []float64 {
	closes := make([]float64, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		closes = append(closes, b.Close)
	}
	return closes
}
