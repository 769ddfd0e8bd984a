package main

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/benz9527/xrbtree/lib/tree"
	"github.com/benz9527/xrbtree/xlog"
)

var _ xlog.Banner = (*demoBanner)(nil)

const bannerTitle = "rbtree demo (red-black tree, int keys)\n"

// demoBanner summarizes the run before the demo starts.
type demoBanner struct {
	cfg *config
}

func (b demoBanner) orders() []string {
	return lo.Map(b.cfg.Orders, func(order tree.TraverseOrder, _ int) string {
		return order.String()
	})
}

func joinKeys(keys []int) string {
	return strings.Join(lo.Map(keys, func(key int, _ int) string {
		return strconv.Itoa(key)
	}), ",")
}

func (b demoBanner) PlainText() string {
	builder := strings.Builder{}
	builder.WriteString(bannerTitle)
	builder.WriteString("keys: " + joinKeys(b.cfg.Keys) + "\n")
	builder.WriteString("delete: " + joinKeys(b.cfg.Deletes) + "\n")
	builder.WriteString("orders: " + strings.Join(b.orders(), ",") + "\n")
	if b.cfg.Metrics != "" {
		builder.WriteString("metrics: " + string(b.cfg.Metrics) + "\n")
	}
	return builder.String()
}

func (b demoBanner) JSON() string {
	builder := strings.Builder{}
	builder.WriteString(`{"app":"rbtree","keys":[`)
	builder.WriteString(joinKeys(b.cfg.Keys))
	builder.WriteString(`],"delete":[`)
	builder.WriteString(joinKeys(b.cfg.Deletes))
	builder.WriteString(`],"orders":[`)
	for i, order := range b.orders() {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(strconv.Quote(order))
	}
	builder.WriteString(`]}`)
	return builder.String()
}
