package main

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/lib/tree"
	"github.com/benz9527/xrbtree/observability"
)

const (
	envKeys    = "RBT_KEYS"
	envDelete  = "RBT_DELETE"
	envOrders  = "RBT_ORDERS"
	envMetrics = "RBT_METRICS"
	envLogFile = "RBT_LOG_FILE"

	defaultKeys   = "20,15,25,10,18"
	defaultDelete = "20"
	defaultOrders = "preorder"
)

type config struct {
	Keys    []int
	Deletes []int
	Orders  []tree.TraverseOrder
	Metrics observability.MetricsExporterType
	LogFile string
}

type lookupEnvFunc func(key string) (string, bool)

// lookupOrDefault keeps an explicitly empty value, so RBT_DELETE= disables deletes.
func lookupOrDefault(lookup lookupEnvFunc, key, def string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return def
}

func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}

func parseKeys(s string) ([]int, error) {
	var err error
	keys := lo.FilterMap(splitList(s), func(item string, _ int) (int, bool) {
		key, convErr := strconv.Atoi(item)
		if convErr != nil {
			err = multierr.Append(err, infra.WrapErrorStackWithMessage(convErr, "invalid key <"+item+">"))
			return 0, false
		}
		return key, true
	})
	return keys, err
}

func parseOrders(s string) ([]tree.TraverseOrder, error) {
	var err error
	orders := lo.FilterMap(splitList(s), func(item string, _ int) (tree.TraverseOrder, bool) {
		order, parseErr := tree.ParseTraverseOrder(item)
		if parseErr != nil {
			err = multierr.Append(err, parseErr)
			return 0, false
		}
		return order, true
	})
	return lo.Uniq(orders), err
}

func loadConfig(lookup lookupEnvFunc) (*config, error) {
	cfg := &config{
		LogFile: strings.TrimSpace(lookupOrDefault(lookup, envLogFile, "")),
	}
	var err, e error
	if cfg.Keys, e = parseKeys(lookupOrDefault(lookup, envKeys, defaultKeys)); e != nil {
		err = multierr.Append(err, e)
	}
	if cfg.Deletes, e = parseKeys(lookupOrDefault(lookup, envDelete, defaultDelete)); e != nil {
		err = multierr.Append(err, e)
	}
	if cfg.Orders, e = parseOrders(lookupOrDefault(lookup, envOrders, defaultOrders)); e != nil {
		err = multierr.Append(err, e)
	}
	if len(cfg.Orders) == 0 {
		cfg.Orders = []tree.TraverseOrder{tree.PreOrder}
	}
	if cfg.Metrics, e = observability.ParseMetricsExporterType(lookupOrDefault(lookup, envMetrics, "")); e != nil {
		err = multierr.Append(err, e)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
