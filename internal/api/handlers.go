package api

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/workload-simulator/internal/models"
)

// FromProtoSimulateRequest maps the gRPC request struct into a domain SimulateRequest.
// Every field is optional; tenant_id must be a string when present.
func FromProtoSimulateRequest(req *structpb.Struct) (models.SimulateRequest, error) {
	if req == nil {
		return models.SimulateRequest{}, fmt.Errorf("request is nil")
	}

	var out models.SimulateRequest
	if value, ok := req.GetFields()["tenant_id"]; ok {
		str, ok := value.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return models.SimulateRequest{}, fmt.Errorf("tenant_id must be a string")
		}
		out.TenantID = strings.TrimSpace(str.StringValue)
	}
	return out, nil
}

// ToProtoSimulateResponse converts a simulation summary into the gRPC representation.
func ToProtoSimulateResponse(resp models.SimulateResponse) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"success":     structpb.NewBoolValue(resp.Success),
		"request_id":  structpb.NewStringValue(resp.RequestID),
		"tier":        structpb.NewStringValue(string(resp.Tier)),
		"category":    structpb.NewStringValue(string(resp.Category)),
		"duration_ms": structpb.NewNumberValue(float64(resp.DurationMS)),
	}}
}

// ToProtoTrafficReport converts a traffic report into the gRPC representation.
func ToProtoTrafficReport(report models.TrafficReport) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"tier":     structpb.NewStringValue(string(report.Tier)),
		"requests": structpb.NewNumberValue(float64(report.Requests)),
		"at":       structpb.NewStringValue(report.At.Format(time.RFC3339)),
	}}
}
