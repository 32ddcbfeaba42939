package repository_test

import (
	"testing"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *metrics.Metrics) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, metrics.NewMetrics(prometheus.NewRegistry())
}
