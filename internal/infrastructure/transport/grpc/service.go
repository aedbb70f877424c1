package transportgrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The sink service streams CBOR encoded records as BytesValue messages and
// answers with the number it accepted.
//
//	service ReportSink {
//	  rpc StreamReports(stream google.protobuf.BytesValue) returns (google.protobuf.UInt64Value);
//	}
const (
	ReportSinkServiceName         = "staticinfo.v1.ReportSink"
	ReportSinkStreamReportsMethod = "/" + ReportSinkServiceName + "/StreamReports"
)

type (
	StreamReportsClient = grpc.ClientStreamingClient[wrapperspb.BytesValue, wrapperspb.UInt64Value]
	StreamReportsServer = grpc.ClientStreamingServer[wrapperspb.BytesValue, wrapperspb.UInt64Value]
)

type ReportSinkServer interface {
	StreamReports(StreamReportsServer) error
}

type ReportSinkClient interface {
	StreamReports(ctx context.Context, opts ...grpc.CallOption) (StreamReportsClient, error)
}

var ReportSinkServiceDesc = grpc.ServiceDesc{
	ServiceName: ReportSinkServiceName,
	HandlerType: (*ReportSinkServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamReports",
			Handler:       streamReportsHandler,
			ClientStreams: true,
		},
	},
	Metadata: "staticinfo/v1/report_sink.proto",
}

func RegisterReportSinkServer(s grpc.ServiceRegistrar, srv ReportSinkServer) {
	s.RegisterService(&ReportSinkServiceDesc, srv)
}

func streamReportsHandler(srv any, stream grpc.ServerStream) error {
	return srv.(ReportSinkServer).StreamReports(
		&grpc.GenericServerStream[wrapperspb.BytesValue, wrapperspb.UInt64Value]{ServerStream: stream},
	)
}

type reportSinkClient struct {
	cc grpc.ClientConnInterface
}

func NewReportSinkClient(cc grpc.ClientConnInterface) ReportSinkClient {
	return &reportSinkClient{cc: cc}
}

func (c *reportSinkClient) StreamReports(ctx context.Context, opts ...grpc.CallOption) (StreamReportsClient, error) {
	stream, err := c.cc.NewStream(ctx, &ReportSinkServiceDesc.Streams[0], ReportSinkStreamReportsMethod, opts...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[wrapperspb.BytesValue, wrapperspb.UInt64Value]{ClientStream: stream}, nil
}
