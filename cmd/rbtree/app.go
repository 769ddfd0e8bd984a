package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/lib/tree"
	"github.com/benz9527/xrbtree/observability"
	"github.com/benz9527/xrbtree/xlog"
)

const statsName = "demo"

type metricsShutdown func(ctx context.Context) error

type demo struct {
	cfg     *config
	logger  xlog.XLogger
	tree    tree.RBTree
	out     io.Writer
	metrics metricsShutdown
}

func newMetrics(cfg *config) (metricsShutdown, error) {
	shutdown, err := observability.NewMetricsExporter(cfg.Metrics)
	if err != nil {
		return nil, err
	}
	return shutdown, nil
}

// newTree depends on the metrics provider so the tree instruments are
// created against the installed exporter.
func newTree(cfg *config, logger xlog.XLogger, _ metricsShutdown) tree.RBTree {
	opts := []tree.RBTreeOpt{
		tree.WithRBTreeLogger(logger.Named("rbtree")),
	}
	if cfg.Metrics != observability.NoopMetricsExporter {
		opts = append(opts, tree.WithRBTreeStats(statsName))
	}
	return tree.NewRBTree(opts...)
}

func newDemo(cfg *config, logger xlog.XLogger, t tree.RBTree, out io.Writer, metrics metricsShutdown) *demo {
	return &demo{
		cfg:     cfg,
		logger:  logger,
		tree:    t,
		out:     out,
		metrics: metrics,
	}
}

// render writes the traversal as "key COLOR" pairs on a single line.
func render(t tree.RBTree, order tree.TraverseOrder) (string, error) {
	seq, err := t.Traverse(order)
	if err != nil {
		return "", err
	}
	builder := strings.Builder{}
	for key, color := range seq {
		if builder.Len() > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(strconv.Itoa(key))
		builder.WriteByte(' ')
		builder.WriteString(color.String())
	}
	return builder.String(), nil
}

func (d *demo) print() error {
	for _, order := range d.cfg.Orders {
		line, err := render(d.tree, order)
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintf(d.out, "%s: %s\n", order, line); err != nil {
			return err
		}
	}
	return nil
}

func (d *demo) run(ctx context.Context) error {
	if d.cfg.Metrics != observability.NoopMetricsExporter {
		if err := observability.InitAppStats(ctx, statsName, nil); err != nil {
			d.logger.ErrorStack(err, "[rbtree] unable to start runtime stats")
		}
	}

	for _, key := range d.cfg.Keys {
		d.tree.Insert(key)
	}
	d.logger.Info("[rbtree] keys inserted",
		zap.Ints("keys", d.cfg.Keys),
		zap.Int64("len", d.tree.Len()),
		zap.Int("height", d.tree.Height()),
	)
	if err := d.print(); err != nil {
		return err
	}

	for _, key := range d.cfg.Deletes {
		err := d.tree.Delete(key)
		if errors.Is(err, tree.ErrKeyNotFound) {
			if _, err = fmt.Fprintf(d.out, "key %d not found\n", key); err != nil {
				return err
			}
			continue
		} else if err != nil {
			return err
		}
	}
	if len(d.cfg.Deletes) > 0 {
		if err := d.print(); err != nil {
			return err
		}
	}

	if err := tree.Validate(d.tree); err != nil {
		d.logger.ErrorStack(err, "[rbtree] invariants violated")
		return err
	}
	d.logger.Debug("[rbtree] invariants hold", zap.Bool("rootBlack", d.tree.IsRootBlack()))
	return nil
}

func (d *demo) stop(ctx context.Context) error {
	d.tree.Release()
	if d.cfg.Metrics == observability.PrometheusMetricsExporter {
		if names, err := observability.GatherPrometheusMetricNames(); err != nil {
			d.logger.ErrorStack(err, "[rbtree] unable to gather prometheus metrics")
		} else {
			d.logger.Info("[rbtree] prometheus metrics", zap.Strings("names", names))
		}
	}
	if d.metrics == nil {
		return nil
	}
	return d.metrics(ctx)
}

// registerHooks appends the teardown before the run. fx counts a hook
// without OnStart as started, so a failed run still rolls back through
// the teardown.
func registerHooks(lc fx.Lifecycle, d *demo) {
	lc.Append(fx.Hook{
		OnStop: d.stop,
	})
	lc.Append(fx.Hook{
		OnStart: d.run,
	})
}

func newApp(cfg *config, out io.Writer, logger xlog.XLogger) *fx.App {
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Supply(cfg),
		fx.Provide(
			func() xlog.XLogger { return logger },
			func() io.Writer { return out },
			newMetrics,
			newTree,
			newDemo,
		),
		fx.Invoke(registerHooks),
	)
}
