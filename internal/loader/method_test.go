package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sdkloader/internal/host"
)

func TestMethod_RoundTripsNames(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestParseMethod_Unknown(t *testing.T) {
	_, err := ParseMethod("flush")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"flush"`)
}

func TestMethod_Triggers(t *testing.T) {
	want := map[Method]bool{
		MethodInit:             false,
		MethodAddBreadcrumb:    false,
		MethodCaptureMessage:   true,
		MethodCaptureException: true,
		MethodCaptureEvent:     true,
		MethodConfigureScope:   false,
		MethodWithScope:        false,
		MethodShowReportDialog: true,
	}
	for m, triggers := range want {
		assert.Equal(t, triggers, m.Triggers(), m.String())
	}
}

func TestMethod_StringOutOfRange(t *testing.T) {
	assert.Equal(t, "Method(99)", Method(99).String())
	assert.False(t, Method(99).Triggers())
}

func TestDispatch_UnknownMethod(t *testing.T) {
	sdk := &stubSDK{}
	err := Invoke(sdk, Method(0), nil)
	require.Error(t, err)
	assert.Empty(t, sdk.calls)
}

func TestInvoke_InitAcceptsPlainMap(t *testing.T) {
	sdk := &stubSDK{hooks: host.NewRegistry()}
	require.NoError(t, Invoke(sdk, MethodInit, []any{map[string]any{"dsn": "Z"}}))
	require.Len(t, sdk.calls, 1)
	assert.Equal(t, []any{Options{"dsn": "Z"}}, sdk.calls[0].Args)
}
