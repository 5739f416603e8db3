package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"fundamental-scanner/internal/api"
	"fundamental-scanner/internal/interfaces"
	"fundamental-scanner/internal/logger"
	"fundamental-scanner/internal/types"
)

const (
	yahooBaseURL     = "https://query1.finance.yahoo.com"
	snapshotModules  = "price,summaryDetail,defaultKeyStatistics,financialData"
	statementModules = "incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory"
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Yahoo fetches quotes, financial statements and price history from the
// Yahoo Finance JSON endpoints. All methods are best-effort: a ticker
// the upstream does not know returns an error the caller degrades to
// empty data.
type Yahoo struct {
	client  *api.Client
	limiter *RateLimiter
	cache   *Cache
}

var _ interfaces.Provider = (*Yahoo)(nil)

// Options configures provider-side throttling and caching.
type Options struct {
	RequestsPerSecond int
	CacheDir          string
	CacheTTL          time.Duration
}

func NewYahoo(opts Options) *Yahoo {
	rps := opts.RequestsPerSecond
	if rps < 1 {
		rps = 1
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Yahoo{
		client: api.NewClient(
			api.WithBaseURL(yahooBaseURL),
			api.WithTimeout(15*time.Second),
			api.WithHeader("User-Agent", userAgent),
		),
		limiter: NewRateLimiter(rps, time.Second/time.Duration(rps)),
		cache:   NewCache(opts.CacheDir, ttl),
	}
}

// rawValue is Yahoo's numeric wrapper: {"raw": 1.23, "fmt": "1.23"}.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v rawValue) float() float64 {
	if v.Raw == nil {
		return math.NaN()
	}
	return *v.Raw
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
				MarketCap          rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				TrailingPE                   rawValue `json:"trailingPE"`
				ForwardPE                    rawValue `json:"forwardPE"`
				PriceToSalesTrailing12Months rawValue `json:"priceToSalesTrailing12Months"`
				DividendYield                rawValue `json:"dividendYield"`
				Beta                         rawValue `json:"beta"`
				FiftyTwoWeekHigh             rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow              rawValue `json:"fiftyTwoWeekLow"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				PegRatio            rawValue `json:"pegRatio"`
				HeldPercentInsiders rawValue `json:"heldPercentInsiders"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				Ebitda rawValue `json:"ebitda"`
			} `json:"financialData"`
			IncomeStatementHistory *struct {
				Statements []map[string]json.RawMessage `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			BalanceSheetHistory *struct {
				Statements []map[string]json.RawMessage `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
			CashflowStatementHistory *struct {
				Statements []map[string]json.RawMessage `json:"cashflowStatements"`
			} `json:"cashflowStatementHistory"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// Snapshot returns the named quote/info fields for a ticker. Fields the
// upstream omits are simply absent from the map.
func (y *Yahoo) Snapshot(ctx context.Context, ticker string) (types.Snapshot, error) {
	var resp quoteSummaryResponse
	if err := y.fetchJSON(ctx, "snapshot:"+ticker, y.quoteSummaryPath(ticker, snapshotModules), &resp); err != nil {
		return nil, err
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote summary for %s", ticker)
	}
	r := resp.QuoteSummary.Result[0]

	snap := types.Snapshot{}
	if r.Price != nil {
		setIfPresent(snap, "price", r.Price.RegularMarketPrice)
		setIfPresent(snap, "market_cap", r.Price.MarketCap)
	}
	if r.SummaryDetail != nil {
		setIfPresent(snap, "pe", r.SummaryDetail.TrailingPE)
		setIfPresent(snap, "forward_pe", r.SummaryDetail.ForwardPE)
		setIfPresent(snap, "p_s", r.SummaryDetail.PriceToSalesTrailing12Months)
		setIfPresent(snap, "dividend_yield", r.SummaryDetail.DividendYield)
		setIfPresent(snap, "beta", r.SummaryDetail.Beta)
		setIfPresent(snap, "fifty_two_week_high", r.SummaryDetail.FiftyTwoWeekHigh)
		setIfPresent(snap, "fifty_two_week_low", r.SummaryDetail.FiftyTwoWeekLow)
	}
	if r.DefaultKeyStatistics != nil {
		setIfPresent(snap, "peg", r.DefaultKeyStatistics.PegRatio)
		setIfPresent(snap, "insider_ownership", r.DefaultKeyStatistics.HeldPercentInsiders)
	}
	if r.FinancialData != nil {
		setIfPresent(snap, "ebitda", r.FinancialData.Ebitda)
	}
	return snap, nil
}

// Statements returns the three financial statements, most recent period
// first, using the upstream's native line item names.
func (y *Yahoo) Statements(ctx context.Context, ticker string) (types.Statements, error) {
	var resp quoteSummaryResponse
	if err := y.fetchJSON(ctx, "statements:"+ticker, y.quoteSummaryPath(ticker, statementModules), &resp); err != nil {
		return types.Statements{}, err
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return types.Statements{}, fmt.Errorf("no statements for %s", ticker)
	}
	r := resp.QuoteSummary.Result[0]

	var st types.Statements
	if r.IncomeStatementHistory != nil {
		st.Income = toPeriods(r.IncomeStatementHistory.Statements)
	}
	if r.BalanceSheetHistory != nil {
		st.Balance = toPeriods(r.BalanceSheetHistory.Statements)
	}
	if r.CashflowStatementHistory != nil {
		st.CashFlow = toPeriods(r.CashflowStatementHistory.Statements)
	}
	return st, nil
}

// History returns up to one year of daily bars, ascending by date.
func (y *Yahoo) History(ctx context.Context, ticker string) ([]types.Bar, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?range=1y&interval=1d", url.PathEscape(strings.ToUpper(ticker)))
	var resp chartResponse
	if err := y.fetchJSON(ctx, "history:"+ticker, path, &resp); err != nil {
		return nil, err
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no price history for %s", ticker)
	}
	r := resp.Chart.Result[0]
	q := r.Indicators.Quote[0]

	bars := make([]types.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Close) || q.Close[i] == 0 {
			continue
		}
		bar := types.Bar{Ts: ts, Close: q.Close[i]}
		if i < len(q.Open) {
			bar.Open = q.Open[i]
		}
		if i < len(q.High) {
			bar.High = q.High[i]
		}
		if i < len(q.Low) {
			bar.Low = q.Low[i]
		}
		if i < len(q.Volume) {
			bar.Vol = q.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (y *Yahoo) quoteSummaryPath(ticker, modules string) string {
	return fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=%s",
		url.PathEscape(strings.ToUpper(ticker)), url.QueryEscape(modules))
}

// fetchJSON rate-limits, serves from cache when fresh, and decodes into
// out.
func (y *Yahoo) fetchJSON(ctx context.Context, cacheKey, path string, out any) error {
	body, err := y.cache.GetOrFetch(cacheKey, func() ([]byte, error) {
		if err := y.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return y.client.Get(ctx, path)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		logger.Debug(ctx, "Malformed provider response", "path", path, "error", err)
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func setIfPresent(snap types.Snapshot, key string, v rawValue) {
	if v.Raw != nil {
		snap[key] = *v.Raw
	}
}

// toPeriods flattens Yahoo's per-period statement objects into line item
// maps. Values arrive as {"raw": n} wrappers; non-numeric entries
// (dates, format strings) are skipped.
func toPeriods(statements []map[string]json.RawMessage) []types.Period {
	periods := make([]types.Period, 0, len(statements))
	for _, stmt := range statements {
		period := types.Period{}
		for name, raw := range stmt {
			var v rawValue
			if err := json.Unmarshal(raw, &v); err != nil || v.Raw == nil {
				continue
			}
			period[name] = *v.Raw
		}
		periods = append(periods, period)
	}
	return periods
}
