package infra

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	testcases := []struct {
		Frame
		format string
		check  func(t *testing.T, res string)
	}{
		{
			initPC,
			"%s",
			func(t *testing.T, res string) {
				require.Equal(t, "err_stack_test.go", res)
			},
		},
		{
			initPC,
			"%+s",
			func(t *testing.T, res string) {
				require.True(t, strings.HasPrefix(res, "github.com/benz9527/xrbtree/lib/infra.init\n\t"))
				require.True(t, strings.HasSuffix(res, "lib/infra/err_stack_test.go"))
			},
		},
		{
			initPC,
			"%n",
			func(t *testing.T, res string) {
				require.Equal(t, "init", res)
			},
		},
		{
			initPC,
			"%d",
			func(t *testing.T, res string) {
				require.Equal(t, "15", res)
			},
		},
		{
			initPC,
			"%v",
			func(t *testing.T, res string) {
				require.Equal(t, "err_stack_test.go:15", res)
			},
		},
		{
			Frame(0),
			"%s",
			func(t *testing.T, res string) {
				require.Equal(t, "unknownFile", res)
			},
		},
		{
			Frame(0),
			"%n",
			func(t *testing.T, res string) {
				require.Equal(t, "unknownFunc", res)
			},
		},
		{
			Frame(0),
			"%d",
			func(t *testing.T, res string) {
				require.Equal(t, "0", res)
			},
		},
	}

	for _, tc := range testcases {
		tc.check(t, fmt.Sprintf(tc.format, tc.Frame))
	}
}

func TestFrameMarshalText(t *testing.T) {
	text, err := initPC.MarshalText()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(text), "github.com/benz9527/xrbtree/lib/infra.init "))
	require.True(t, strings.HasSuffix(string(text), "err_stack_test.go:15"))

	text, err = Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(text))
}

func TestNewErrorStack(t *testing.T) {
	es := NewErrorStack("boom")
	require.Equal(t, "boom", es.Error())
	require.Nil(t, es.Unwrap())
	frames := es.Frames()
	require.NotEmpty(t, frames)
	require.Equal(t, "TestNewErrorStack", fmt.Sprintf("%n", frames[0]))

	verbose := fmt.Sprintf("%+v", es)
	require.True(t, strings.HasPrefix(verbose, "boom\n"))
	require.Contains(t, verbose, "err_stack_test.go")
	require.Equal(t, "boom", fmt.Sprintf("%s", es))
	require.Equal(t, `"boom"`, fmt.Sprintf("%q", es))
}

func TestWrapErrorStack(t *testing.T) {
	require.NoError(t, WrapErrorStack(nil))
	require.NoError(t, WrapErrorStackWithMessage(nil, "ignored"))

	err := WrapErrorStack(io.EOF)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, io.EOF.Error(), err.Error())

	var es ErrorStack
	require.True(t, errors.As(err, &es))
	require.Equal(t, "TestWrapErrorStack", fmt.Sprintf("%n", es.Frames()[0]))

	// Already carrying a stack, keep the original frames.
	require.Same(t, err, WrapErrorStack(err))

	err = WrapErrorStackWithMessage(io.EOF, "read failed")
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, "read failed: EOF", err.Error())
}

func TestErrorStackMarshalLogObject(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	es := NewErrorStack("marshal")
	require.NoError(t, es.MarshalLogObject(enc))
	require.Equal(t, "marshal", enc.Fields["error"])
	frames, ok := enc.Fields["errorStack"].([]any)
	require.True(t, ok)
	require.Len(t, frames, len(es.Frames()))
	require.Contains(t, frames[0], "TestErrorStackMarshalLogObject")
}
