package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "stagelens.v1.StageService"

// Full method names, as seen by interceptors
const (
	MethodCreateCompany            = "/" + ServiceName + "/CreateCompany"
	MethodGetCompany               = "/" + ServiceName + "/GetCompany"
	MethodCreateSnapshot           = "/" + ServiceName + "/CreateSnapshot"
	MethodUpdateSnapshotFinancials = "/" + ServiceName + "/UpdateSnapshotFinancials"
	MethodGetSnapshot              = "/" + ServiceName + "/GetSnapshot"
	MethodFinalizeSnapshot         = "/" + ServiceName + "/FinalizeSnapshot"
	MethodInvalidateSnapshot       = "/" + ServiceName + "/InvalidateSnapshot"
	MethodGetTimeline              = "/" + ServiceName + "/GetTimeline"
	MethodGetTrends                = "/" + ServiceName + "/GetTrends"
	MethodCompareSnapshots         = "/" + ServiceName + "/CompareSnapshots"
)

// StageServiceServer is the server API for StageService
type StageServiceServer interface {
	CreateCompany(context.Context, *CreateCompanyRequest) (*CreateCompanyResponse, error)
	GetCompany(context.Context, *GetCompanyRequest) (*GetCompanyResponse, error)
	CreateSnapshot(context.Context, *CreateSnapshotRequest) (*SnapshotResponse, error)
	UpdateSnapshotFinancials(context.Context, *UpdateSnapshotFinancialsRequest) (*SnapshotResponse, error)
	GetSnapshot(context.Context, *GetSnapshotRequest) (*SnapshotResponse, error)
	FinalizeSnapshot(context.Context, *FinalizeSnapshotRequest) (*FinalizeSnapshotResponse, error)
	InvalidateSnapshot(context.Context, *InvalidateSnapshotRequest) (*SnapshotResponse, error)
	GetTimeline(context.Context, *GetTimelineRequest) (*GetTimelineResponse, error)
	GetTrends(context.Context, *GetTrendsRequest) (*GetTrendsResponse, error)
	CompareSnapshots(context.Context, *CompareSnapshotsRequest) (*CompareSnapshotsResponse, error)
}

// RegisterStageServiceServer registers the service implementation with a gRPC server
func RegisterStageServiceServer(s grpc.ServiceRegistrar, srv StageServiceServer) {
	s.RegisterService(&StageServiceDesc, srv)
}

// unaryHandler builds a method handler that decodes Req and calls call on the server
func unaryHandler[Req any, Resp any](fullMethod string, call func(StageServiceServer, context.Context, *Req) (*Resp, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StageServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(StageServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// StageServiceDesc is the grpc.ServiceDesc for StageService
var StageServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateCompany", Handler: unaryHandler(MethodCreateCompany, StageServiceServer.CreateCompany)},
		{MethodName: "GetCompany", Handler: unaryHandler(MethodGetCompany, StageServiceServer.GetCompany)},
		{MethodName: "CreateSnapshot", Handler: unaryHandler(MethodCreateSnapshot, StageServiceServer.CreateSnapshot)},
		{MethodName: "UpdateSnapshotFinancials", Handler: unaryHandler(MethodUpdateSnapshotFinancials, StageServiceServer.UpdateSnapshotFinancials)},
		{MethodName: "GetSnapshot", Handler: unaryHandler(MethodGetSnapshot, StageServiceServer.GetSnapshot)},
		{MethodName: "FinalizeSnapshot", Handler: unaryHandler(MethodFinalizeSnapshot, StageServiceServer.FinalizeSnapshot)},
		{MethodName: "InvalidateSnapshot", Handler: unaryHandler(MethodInvalidateSnapshot, StageServiceServer.InvalidateSnapshot)},
		{MethodName: "GetTimeline", Handler: unaryHandler(MethodGetTimeline, StageServiceServer.GetTimeline)},
		{MethodName: "GetTrends", Handler: unaryHandler(MethodGetTrends, StageServiceServer.GetTrends)},
		{MethodName: "CompareSnapshots", Handler: unaryHandler(MethodCompareSnapshots, StageServiceServer.CompareSnapshots)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stagelens/v1/stage_service",
}

// StageServiceClient calls StageService using the JSON codec
type StageServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewStageServiceClient creates a client over an established connection
func NewStageServiceClient(cc grpc.ClientConnInterface) *StageServiceClient {
	return &StageServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *StageServiceClient, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StageServiceClient) CreateCompany(ctx context.Context, in *CreateCompanyRequest, opts ...grpc.CallOption) (*CreateCompanyResponse, error) {
	return invoke[CreateCompanyResponse](ctx, c, MethodCreateCompany, in, opts)
}

func (c *StageServiceClient) GetCompany(ctx context.Context, in *GetCompanyRequest, opts ...grpc.CallOption) (*GetCompanyResponse, error) {
	return invoke[GetCompanyResponse](ctx, c, MethodGetCompany, in, opts)
}

func (c *StageServiceClient) CreateSnapshot(ctx context.Context, in *CreateSnapshotRequest, opts ...grpc.CallOption) (*SnapshotResponse, error) {
	return invoke[SnapshotResponse](ctx, c, MethodCreateSnapshot, in, opts)
}

func (c *StageServiceClient) UpdateSnapshotFinancials(ctx context.Context, in *UpdateSnapshotFinancialsRequest, opts ...grpc.CallOption) (*SnapshotResponse, error) {
	return invoke[SnapshotResponse](ctx, c, MethodUpdateSnapshotFinancials, in, opts)
}

func (c *StageServiceClient) GetSnapshot(ctx context.Context, in *GetSnapshotRequest, opts ...grpc.CallOption) (*SnapshotResponse, error) {
	return invoke[SnapshotResponse](ctx, c, MethodGetSnapshot, in, opts)
}

func (c *StageServiceClient) FinalizeSnapshot(ctx context.Context, in *FinalizeSnapshotRequest, opts ...grpc.CallOption) (*FinalizeSnapshotResponse, error) {
	return invoke[FinalizeSnapshotResponse](ctx, c, MethodFinalizeSnapshot, in, opts)
}

func (c *StageServiceClient) InvalidateSnapshot(ctx context.Context, in *InvalidateSnapshotRequest, opts ...grpc.CallOption) (*SnapshotResponse, error) {
	return invoke[SnapshotResponse](ctx, c, MethodInvalidateSnapshot, in, opts)
}

func (c *StageServiceClient) GetTimeline(ctx context.Context, in *GetTimelineRequest, opts ...grpc.CallOption) (*GetTimelineResponse, error) {
	return invoke[GetTimelineResponse](ctx, c, MethodGetTimeline, in, opts)
}

func (c *StageServiceClient) GetTrends(ctx context.Context, in *GetTrendsRequest, opts ...grpc.CallOption) (*GetTrendsResponse, error) {
	return invoke[GetTrendsResponse](ctx, c, MethodGetTrends, in, opts)
}

func (c *StageServiceClient) CompareSnapshots(ctx context.Context, in *CompareSnapshotsRequest, opts ...grpc.CallOption) (*CompareSnapshotsResponse, error) {
	return invoke[CompareSnapshotsResponse](ctx, c, MethodCompareSnapshots, in, opts)
}
