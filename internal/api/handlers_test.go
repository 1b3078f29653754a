package api

import (
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/workload-simulator/internal/models"
)

func TestFromProtoSimulateRequest(t *testing.T) {
	req, err := structpb.NewStruct(map[string]any{"tenant_id": "  acme "})
	if err != nil {
		t.Fatalf("build request: %v", err)
	}

	domainReq, err := FromProtoSimulateRequest(req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if domainReq.TenantID != "acme" {
		t.Fatalf("unexpected tenant id: %q", domainReq.TenantID)
	}
}

func TestFromProtoSimulateRequestEmpty(t *testing.T) {
	domainReq, err := FromProtoSimulateRequest(&structpb.Struct{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if domainReq.TenantID != "" {
		t.Fatalf("expected empty tenant, got %q", domainReq.TenantID)
	}
}

func TestFromProtoSimulateRequestInvalid(t *testing.T) {
	if _, err := FromProtoSimulateRequest(nil); err == nil {
		t.Fatalf("expected error for nil request")
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{"tenant_id": structpb.NewBoolValue(true)}}
	if _, err := FromProtoSimulateRequest(req); err == nil {
		t.Fatalf("expected error for non-string tenant")
	}
}

func TestToProtoSimulateResponse(t *testing.T) {
	resp := models.SimulateResponse{
		Success:    false,
		RequestID:  "req-9",
		Tier:       models.TrafficLow,
		Category:   models.SpeedSluggish,
		DurationMS: 17500,
	}

	out := ToProtoSimulateResponse(resp)
	fields := out.GetFields()
	if fields["success"].GetBoolValue() {
		t.Fatalf("expected success=false")
	}
	if fields["category"].GetStringValue() != "sluggish" || fields["tier"].GetStringValue() != "low" {
		t.Fatalf("unexpected labels: %v", fields)
	}
	if fields["duration_ms"].GetNumberValue() != 17500 {
		t.Fatalf("unexpected duration: %v", fields["duration_ms"])
	}
	if fields["request_id"].GetStringValue() != "req-9" {
		t.Fatalf("unexpected request id: %v", fields["request_id"])
	}
}

func TestToProtoTrafficReport(t *testing.T) {
	at := time.Date(2024, time.January, 3, 11, 0, 0, 0, time.FixedZone("UTC-03:00", -3*3600))
	out := ToProtoTrafficReport(models.TrafficReport{Tier: models.TrafficHigh, Requests: 150, At: at})

	fields := out.GetFields()
	if fields["tier"].GetStringValue() != "high" {
		t.Fatalf("unexpected tier: %v", fields["tier"])
	}
	if fields["requests"].GetNumberValue() != 150 {
		t.Fatalf("unexpected requests: %v", fields["requests"])
	}
	if fields["at"].GetStringValue() != "2024-01-03T11:00:00-03:00" {
		t.Fatalf("unexpected timestamp: %v", fields["at"])
	}
}
