package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func sumOf(rm *metricdata.ResourceMetrics, name string, filter ...attribute.KeyValue) int64 {
	total := int64(0)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
		next:
			for _, dp := range sum.DataPoints {
				for _, kv := range filter {
					if v, ok := dp.Attributes.Value(kv.Key); !ok || v.Emit() != kv.Value.Emit() {
						continue next
					}
				}
				total += dp.Value
			}
		}
	}
	return total
}

func TestRbtreeStats(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(mp)
	defer func() {
		_ = mp.Shutdown(context.Background())
	}()

	tree := NewRBTree(WithRBTreeStats("stats-test"))
	for _, key := range []int{20, 15, 25, 10, 18} {
		tree.Insert(key)
	}
	require.NoError(t, tree.Delete(20))
	require.ErrorIs(t, tree.Delete(99), ErrKeyNotFound)

	rm := &metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), rm))

	require.Equal(t, int64(4), sumOf(rm, "rbtree.node.count"))
	require.Equal(t, int64(1), sumOf(rm, "rbtree.key.notfound.count"))
	// Inserting 10 recolors the uncle 25, deleting 20 borrows from 15's red far child.
	require.Equal(t, int64(1), sumOf(rm, "rbtree.insert.fixup.count", attribute.String("rbtree.fixup.case", "im1")))
	require.Equal(t, int64(1), sumOf(rm, "rbtree.remove.fixup.count", attribute.String("rbtree.fixup.case", "rm4")))
	require.Equal(t, int64(1), sumOf(rm, "rbtree.rotate.count", attribute.String("rbtree.rotate.direction", "right")))
	require.Equal(t, int64(0), sumOf(rm, "rbtree.rotate.count", attribute.String("rbtree.rotate.direction", "left")))

	tree.Release()
	rm = &metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), rm))
	require.Equal(t, int64(0), sumOf(rm, "rbtree.node.count"))
}

func TestRbtreeStats_Disabled(t *testing.T) {
	var stats *rbTreeStats
	require.NotPanics(t, func() {
		stats.RecordNodeCount(1)
		stats.IncreaseRotateCount(Left)
		stats.IncreaseInsertFixUpCount("im1")
		stats.IncreaseRemoveFixUpCount("rm1")
		stats.IncreaseNotFoundCount()
	})
}
