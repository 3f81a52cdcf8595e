package ctxutil

import (
	"context"
	"testing"
)

func TestTraceDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t1" || td.RequestID != "r1" {
		t.Fatalf("GetTraceData: got=%+v", td)
	}
	if got := WithTraceData(context.Background(), nil); GetTraceData(got) != nil {
		t.Fatalf("nil trace data should not be stored")
	}
}

func TestLogFields(t *testing.T) {
	if got := LogFields(context.Background()); len(got) != 0 {
		t.Fatalf("empty ctx: want=0 fields got=%v", got)
	}
	ctx := WithTraceData(context.Background(), &TraceData{RequestID: "r1"})
	got := LogFields(ctx)
	if len(got) != 2 || got[0] != "request_id" || got[1] != "r1" {
		t.Fatalf("request only: got=%v", got)
	}
}
