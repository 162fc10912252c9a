package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStage(t *testing.T) {
	before := testutil.ToFloat64(StageOutcomes.WithLabelValues("entity", "pass"))
	Stage("entity", "pass")
	Stage("entity", "pass")
	assert.InDelta(t, before+2, testutil.ToFloat64(StageOutcomes.WithLabelValues("entity", "pass")), 0.001)
}

func TestObserveCrawl(t *testing.T) {
	before := testutil.CollectAndCount(CrawlDuration)
	ObserveCrawl(time.Now().Add(-time.Second))
	assert.Equal(t, before, testutil.CollectAndCount(CrawlDuration))
}
