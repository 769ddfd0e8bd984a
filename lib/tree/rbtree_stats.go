package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xrbtree/rbtree"
)

var (
	rotateLeftAttrs  = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rotate.direction", "left")))
	rotateRightAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rotate.direction", "right")))
)

type rbTreeStats struct {
	nodeCount        metric.Int64UpDownCounter
	rotateCount      metric.Int64Counter
	insertFixUpCount metric.Int64Counter
	removeFixUpCount metric.Int64Counter
	keyNotFoundCount metric.Int64Counter
}

func (stats *rbTreeStats) RecordNodeCount(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.nodeCount.Add(context.Background(), delta)
}

func (stats *rbTreeStats) IncreaseRotateCount(dir RBDirection) {
	if stats == nil {
		return
	}
	if dir == Left {
		stats.rotateCount.Add(context.Background(), 1, rotateLeftAttrs)
		return
	}
	stats.rotateCount.Add(context.Background(), 1, rotateRightAttrs)
}

func (stats *rbTreeStats) IncreaseInsertFixUpCount(fixCase string) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String("rbtree.fixup.case", fixCase),
	)
	stats.insertFixUpCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *rbTreeStats) IncreaseRemoveFixUpCount(fixCase string) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String("rbtree.fixup.case", fixCase),
	)
	stats.removeFixUpCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *rbTreeStats) IncreaseNotFoundCount() {
	if stats == nil {
		return
	}
	stats.keyNotFoundCount.Add(context.Background(), 1)
}

func newRBTreeStats(name string) *rbTreeStats {
	meterName := fmt.Sprintf("%s/%s", RBTreeStatsName, name)
	return &rbTreeStats{
		nodeCount: lo.Must[metric.Int64UpDownCounter](otel.Meter(meterName).
			Int64UpDownCounter(
				"rbtree.node.count",
				metric.WithDescription("The number of nodes in the rbtree."),
			),
		),
		rotateCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"rbtree.rotate.count",
				metric.WithDescription("The number of rotations applied by the rbtree rebalance."),
			),
		),
		insertFixUpCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"rbtree.insert.fixup.count",
				metric.WithDescription("The number of insert fix-up cases applied."),
			),
		),
		removeFixUpCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"rbtree.remove.fixup.count",
				metric.WithDescription("The number of remove fix-up cases applied."),
			),
		),
		keyNotFoundCount: lo.Must[metric.Int64Counter](otel.Meter(meterName).
			Int64Counter(
				"rbtree.key.notfound.count",
				metric.WithDescription("The number of deletes on an absent key."),
			),
		),
	}
}
