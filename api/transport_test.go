package api_test

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-nus/api"
)

func TestStreamTransportInterfaceCompliance(t *testing.T) {
	var _ api.StreamTransport = (*mockStream)(nil)
}

type mockStream struct{}

func (*mockStream) Init(api.EventHandler, any) error { return nil }
func (*mockStream) Uninit() error                    { return nil }
func (*mockStream) Enable(bool) error                { return nil }
func (*mockStream) Read([]byte) int                  { return 0 }
func (*mockStream) Write(p []byte) int               { return len(p) }

func TestEventAndStateStrings(t *testing.T) {
	if api.RxReady.String() != "rx_ready" || api.TxReady.String() != "tx_ready" {
		t.Fatalf("unexpected event names: %s %s", api.RxReady, api.TxReady)
	}
	if api.StateEnabling.String() != "enabling" {
		t.Fatalf("unexpected state name: %s", api.StateEnabling)
	}
}

func TestWrapUnwrapsSentinel(t *testing.T) {
	err := api.Wrap(api.ErrCodeNotSupported, api.ErrNotSupported).WithContext("blocking", true)
	if !errors.Is(err, api.ErrNotSupported) {
		t.Fatal("wrapped error must match its sentinel")
	}
	if err.Code != api.ErrCodeNotSupported {
		t.Fatalf("code = %d", err.Code)
	}
}
