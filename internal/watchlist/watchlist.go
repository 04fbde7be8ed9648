// Package watchlist holds the predefined ticker universes the scanner
// can run against.
package watchlist

import "fmt"

// Universe names a predefined watchlist.
type Universe string

const (
	UniverseMegacap   Universe = "megacap"
	UniverseNasdaq100 Universe = "nasdaq100"
)

// Get returns the tickers for a universe.
func Get(u Universe) ([]string, error) {
	switch u {
	case UniverseMegacap:
		return megacapTickers, nil
	case UniverseNasdaq100:
		return nasdaq100Tickers, nil
	default:
		return nil, fmt.Errorf("unknown universe %q (available: megacap, nasdaq100)", u)
	}
}

// megacapTickers is a compact high-liquidity default: large caps where
// the daily-bar factors behave well and a scan finishes quickly.
var megacapTickers = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA",
	"META", "TSLA", "AVGO", "AMD", "NFLX",
	"JPM", "V", "MA", "UNH", "LLY",
	"WMT", "COST", "HD", "XOM", "CVX",
}

// nasdaq100Tickers is the NASDAQ-100 components (as of 2024). Symbols
// with share-class suffixes are excluded since the bar providers want
// plain tickers.
var nasdaq100Tickers = []string{
	"AAPL", "ABNB", "ADBE", "ADI", "ADP", "ADSK", "AEP", "AMAT", "AMD", "AMGN",
	"AMZN", "ANSS", "ARM", "ASML", "AVGO", "AZN", "BIIB", "BKNG", "BKR", "CCEP",
	"CDNS", "CDW", "CEG", "CHTR", "CMCSA", "COST", "CPRT", "CRWD", "CSCO", "CSGP",
	"CSX", "CTAS", "CTSH", "DDOG", "DLTR", "DXCM", "EA", "EXC", "FANG", "FAST",
	"FTNT", "GEHC", "GFS", "GILD", "GOOG", "GOOGL", "HON", "IDXX", "ILMN", "INTC",
	"INTU", "ISRG", "KDP", "KHC", "KLAC", "LIN", "LRCX", "LULU", "MAR", "MCHP",
	"MDB", "MDLZ", "MELI", "META", "MNST", "MRNA", "MRVL", "MSFT", "MU", "NFLX",
	"NVDA", "NXPI", "ODFL", "ON", "ORLY", "PANW", "PAYX", "PCAR", "PDD", "PEP",
	"PYPL", "QCOM", "REGN", "ROP", "ROST", "SBUX", "SMCI", "SNPS", "TEAM", "TMUS",
	"TSLA", "TTD", "TTWO", "TXN", "VRSK", "VRTX", "WBD", "WDAY", "XEL", "ZS",
}
