package orchestrator

import (
	"testing"

	"mcslp/internal/status"
)

func TestRunChainFirstSuccessWins(t *testing.T) {
	var tried []status.SlpProtocol
	rec := runChain(javaChainOrder, func(p status.SlpProtocol) status.StatusRecord {
		tried = append(tried, p)
		if p == status.Beta {
			return status.StatusRecord{SlpProtocol: p, ConnectionStatus: status.Success}
		}
		return status.StatusRecord{SlpProtocol: p, ConnectionStatus: status.Unknown}
	})
	if rec.ConnectionStatus != status.Success || rec.SlpProtocol != status.Beta {
		t.Fatalf("expected success on BETA, got %+v", rec)
	}
	want := []status.SlpProtocol{status.Legacy, status.Beta}
	if len(tried) != len(want) {
		t.Fatalf("tried %v, want chain to stop right after the success at %v", tried, want)
	}
}

func TestRunChainConnFailShortCircuits(t *testing.T) {
	var tried []status.SlpProtocol
	rec := runChain(javaChainOrder, func(p status.SlpProtocol) status.StatusRecord {
		tried = append(tried, p)
		if p == status.Legacy {
			return status.StatusRecord{SlpProtocol: p, ConnectionStatus: status.ConnFail}
		}
		return status.StatusRecord{SlpProtocol: p, ConnectionStatus: status.Success}
	})
	if rec.ConnectionStatus != status.ConnFail {
		t.Fatalf("expected ConnFail to short-circuit, got %+v", rec)
	}
	if len(tried) != 1 {
		t.Fatalf("expected exactly one attempt before short-circuit, tried %v", tried)
	}
}

func TestRunChainFallsThroughToLast(t *testing.T) {
	rec := runChain(javaChainOrder, func(p status.SlpProtocol) status.StatusRecord {
		return status.StatusRecord{SlpProtocol: p, ConnectionStatus: status.Timeout}
	})
	if rec.ConnectionStatus != status.Timeout || rec.SlpProtocol != status.JSON {
		t.Fatalf("expected final chain status to be the last attempt (JSON), got %+v", rec)
	}
}

func TestRecoverProbeDowngradesPanic(t *testing.T) {
	rec := recoverProbe(func() status.StatusRecord {
		panic("boom")
	})
	if rec.ConnectionStatus != status.Unknown {
		t.Fatalf("expected panic to downgrade to Unknown, got %+v", rec)
	}
}

func TestJavaChainOrderOldestFirst(t *testing.T) {
	want := []status.SlpProtocol{status.Legacy, status.Beta, status.ExtendedLegacy, status.Query, status.JSON}
	if len(javaChainOrder) != len(want) {
		t.Fatalf("javaChainOrder length = %d, want %d", len(javaChainOrder), len(want))
	}
	for i := range want {
		if javaChainOrder[i] != want[i] {
			t.Fatalf("javaChainOrder[%d] = %v, want %v", i, javaChainOrder[i], want[i])
		}
	}
}
