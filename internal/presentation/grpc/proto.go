package grpc

// proto.go defines the finboard.fraud.v1.FraudService surface by hand, in the
// shape protoc-gen-go-grpc would generate. Messages travel over jsonCodec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FraudServiceName is the fully qualified gRPC service name.
const FraudServiceName = "finboard.fraud.v1.FraudService"

// FraudServiceServer is the server API for FraudService.
type FraudServiceServer interface {
	EvaluateTransaction(context.Context, *EvaluateTransactionRequest) (*EvaluateTransactionResponse, error)
	GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error)
	ListAssessments(context.Context, *ListAssessmentsRequest) (*ListAssessmentsResponse, error)
	ClassifyScore(context.Context, *ClassifyScoreRequest) (*ClassifyScoreResponse, error)
	mustEmbedUnimplementedFraudServiceServer()
}

// UnimplementedFraudServiceServer provides forward-compatible default implementations.
type UnimplementedFraudServiceServer struct{}

func (UnimplementedFraudServiceServer) EvaluateTransaction(context.Context, *EvaluateTransactionRequest) (*EvaluateTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateTransaction not implemented")
}
func (UnimplementedFraudServiceServer) GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedFraudServiceServer) ListAssessments(context.Context, *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListAssessments not implemented")
}
func (UnimplementedFraudServiceServer) ClassifyScore(context.Context, *ClassifyScoreRequest) (*ClassifyScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClassifyScore not implemented")
}
func (UnimplementedFraudServiceServer) mustEmbedUnimplementedFraudServiceServer() {}

// RegisterFraudServiceServer registers the FraudServiceServer with the gRPC server.
func RegisterFraudServiceServer(s grpclib.ServiceRegistrar, srv FraudServiceServer) {
	s.RegisterService(&_FraudService_serviceDesc, srv)
}

var _FraudService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: FraudServiceName,
	HandlerType: (*FraudServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "EvaluateTransaction", Handler: _FraudService_EvaluateTransaction_Handler},
		{MethodName: "GetAssessment", Handler: _FraudService_GetAssessment_Handler},
		{MethodName: "ListAssessments", Handler: _FraudService_ListAssessments_Handler},
		{MethodName: "ClassifyScore", Handler: _FraudService_ClassifyScore_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "finboard/fraud/v1/fraud.proto",
}

func _FraudService_EvaluateTransaction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(EvaluateTransactionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FraudServiceServer).EvaluateTransaction(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + FraudServiceName + "/EvaluateTransaction"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FraudServiceServer).EvaluateTransaction(ctx, req.(*EvaluateTransactionRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _FraudService_GetAssessment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetAssessmentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FraudServiceServer).GetAssessment(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + FraudServiceName + "/GetAssessment"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FraudServiceServer).GetAssessment(ctx, req.(*GetAssessmentRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _FraudService_ListAssessments_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ListAssessmentsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FraudServiceServer).ListAssessments(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + FraudServiceName + "/ListAssessments"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FraudServiceServer).ListAssessments(ctx, req.(*ListAssessmentsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _FraudService_ClassifyScore_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ClassifyScoreRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FraudServiceServer).ClassifyScore(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + FraudServiceName + "/ClassifyScore"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FraudServiceServer).ClassifyScore(ctx, req.(*ClassifyScoreRequest))
	}
	return interceptor(ctx, req, info, handler)
}
