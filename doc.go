// Package divyield computes dividend yield time series from market data.
//
// The core functionalities include:
//   - Trailing twelve months yield: TTMYield aligns a price series and a sparse list
//     of dividend events on a daily or monthly grid, and divides the dividends paid
//     over the trailing window by the close of each day.
//   - Lookback periods: ParseLookback reads the "11mo", "1y" or "90d" strings used to
//     limit the output to a recent window.
//   - Market data: the Provider interface abstracts the source of prices and dividends.
//     Implementations live in the eodhd and yahoo packages.
//   - JSON payloads: YieldPayload and PricesPayload are the documents written by the
//     divyield command, one JSON object per invocation.
//   - Indicators: moving average and momentum of a yield series.
//
// This package serves as the foundational logic for the `divyield` command-line tool.
package divyield
