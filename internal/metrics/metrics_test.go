package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDeclarationCounters(t *testing.T) {
	before := testutil.ToFloat64(DeclarationsTotal)
	DeclarationsTotal.Inc()
	DeclarationsTotal.Inc()
	assert.Equal(t, before+2, testutil.ToFloat64(DeclarationsTotal))
}

func TestLayoutCacheCounterLabels(t *testing.T) {
	hitBefore := testutil.ToFloat64(LayoutCacheHits.WithLabelValues("hit"))
	missBefore := testutil.ToFloat64(LayoutCacheHits.WithLabelValues("miss"))

	LayoutCacheHits.WithLabelValues("hit").Inc()
	LayoutCacheHits.WithLabelValues("miss").Inc()
	LayoutCacheHits.WithLabelValues("miss").Inc()

	assert.Equal(t, hitBefore+1, testutil.ToFloat64(LayoutCacheHits.WithLabelValues("hit")))
	assert.Equal(t, missBefore+2, testutil.ToFloat64(LayoutCacheHits.WithLabelValues("miss")))
}

func TestWSGaugeUpDown(t *testing.T) {
	base := testutil.ToFloat64(WSConnectedClients)
	WSConnectedClients.Inc()
	WSConnectedClients.Inc()
	WSConnectedClients.Dec()
	assert.Equal(t, base+1, testutil.ToFloat64(WSConnectedClients))
}
