package watchlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swingscore/internal/service"
)

func TestGet(t *testing.T) {
	megacap, err := Get(UniverseMegacap)
	require.NoError(t, err)
	assert.NotEmpty(t, megacap)

	nasdaq, err := Get(UniverseNasdaq100)
	require.NoError(t, err)
	assert.Len(t, nasdaq, 100)

	_, err = Get("smallcaps")
	assert.ErrorContains(t, err, "unknown universe")
}

// Every shipped ticker must survive the service's validation, or scans
// over a universe would reject their own input.
func TestUniverseTickersAreValid(t *testing.T) {
	for _, u := range []Universe{UniverseMegacap, UniverseNasdaq100} {
		tickers, err := Get(u)
		require.NoError(t, err)
		for _, ticker := range tickers {
			_, err := service.CleanTicker(ticker)
			assert.NoError(t, err, "universe %s ticker %s", u, ticker)
		}
	}
}
