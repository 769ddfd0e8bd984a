package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xrbtree/lib/tree"
	"github.com/benz9527/xrbtree/observability"
)

func mapLookup(env map[string]string) lookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadConfig(t *testing.T) {
	testcases := []struct {
		name     string
		env      map[string]string
		expected *config
		errMsg   string
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			expected: &config{
				Keys:    []int{20, 15, 25, 10, 18},
				Deletes: []int{20},
				Orders:  []tree.TraverseOrder{tree.PreOrder},
				Metrics: observability.NoopMetricsExporter,
			},
		},
		{
			name: "custom",
			env: map[string]string{
				envKeys:    " 3, 1,,2 ",
				envDelete:  "",
				envOrders:  "in,post,in",
				envMetrics: "stdout",
				envLogFile: " /tmp/rbtree.log ",
			},
			expected: &config{
				Keys:    []int{3, 1, 2},
				Deletes: []int{},
				Orders:  []tree.TraverseOrder{tree.InOrder, tree.PostOrder},
				Metrics: observability.ConsoleMetricsExporter,
				LogFile: "/tmp/rbtree.log",
			},
		},
		{
			name: "empty orders fall back to pre-order",
			env:  map[string]string{envOrders: " , "},
			expected: &config{
				Keys:    []int{20, 15, 25, 10, 18},
				Deletes: []int{20},
				Orders:  []tree.TraverseOrder{tree.PreOrder},
				Metrics: observability.NoopMetricsExporter,
			},
		},
		{
			name:   "bad key",
			env:    map[string]string{envKeys: "1,x"},
			errMsg: "invalid key <x>",
		},
		{
			name:   "bad order",
			env:    map[string]string{envOrders: "levelorder"},
			errMsg: "unsupported traverse order",
		},
		{
			name:   "bad metrics",
			env:    map[string]string{envMetrics: "otlp"},
			errMsg: "unknown metrics exporter",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			cfg, err := loadConfig(mapLookup(tc.env))
			if tc.errMsg != "" {
				require.Error(tt, err)
				require.Contains(tt, err.Error(), tc.errMsg)
				require.Nil(tt, cfg)
				return
			}
			require.NoError(tt, err)
			require.Equal(tt, tc.expected, cfg)
		})
	}
}

func TestParseKeys_CollectsAllErrors(t *testing.T) {
	keys, err := parseKeys("a,1,b")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid key <a>")
	require.Contains(t, err.Error(), "invalid key <b>")
	require.Equal(t, []int{1}, keys)
}
