package grpc

// Server interface and message types for bib.checkout.v1.CheckoutService.
// Messages travel with the JSON codec registered in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CheckoutServiceServer is the server API for CheckoutService.
type CheckoutServiceServer interface {
	InitiateCheckout(context.Context, *InitiateCheckoutRequest) (*InitiateCheckoutResponse, error)
	SubmitChallengeResponse(context.Context, *SubmitChallengeResponseRequest) (*SubmitChallengeResponseResponse, error)
	GetNarrativeStatus(context.Context, *GetNarrativeStatusRequest) (*GetNarrativeStatusResponse, error)
	mustEmbedUnimplementedCheckoutServiceServer()
}

// UnimplementedCheckoutServiceServer provides forward-compatible default implementations.
type UnimplementedCheckoutServiceServer struct{}

func (UnimplementedCheckoutServiceServer) InitiateCheckout(context.Context, *InitiateCheckoutRequest) (*InitiateCheckoutResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method InitiateCheckout not implemented")
}
func (UnimplementedCheckoutServiceServer) SubmitChallengeResponse(context.Context, *SubmitChallengeResponseRequest) (*SubmitChallengeResponseResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitChallengeResponse not implemented")
}
func (UnimplementedCheckoutServiceServer) GetNarrativeStatus(context.Context, *GetNarrativeStatusRequest) (*GetNarrativeStatusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetNarrativeStatus not implemented")
}
func (UnimplementedCheckoutServiceServer) mustEmbedUnimplementedCheckoutServiceServer() {}

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "bib.checkout.v1.CheckoutService"

// RegisterCheckoutServiceServer registers the CheckoutServiceServer with the gRPC server.
func RegisterCheckoutServiceServer(s grpclib.ServiceRegistrar, srv CheckoutServiceServer) {
	s.RegisterService(&_CheckoutService_serviceDesc, srv)
}

var _CheckoutService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CheckoutServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "InitiateCheckout", Handler: _CheckoutService_InitiateCheckout_Handler},
		{MethodName: "SubmitChallengeResponse", Handler: _CheckoutService_SubmitChallengeResponse_Handler},
		{MethodName: "GetNarrativeStatus", Handler: _CheckoutService_GetNarrativeStatus_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/checkout/v1/checkout.proto",
}

func _CheckoutService_InitiateCheckout_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(InitiateCheckoutRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CheckoutServiceServer).InitiateCheckout(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/InitiateCheckout"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CheckoutServiceServer).InitiateCheckout(ctx, req.(*InitiateCheckoutRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _CheckoutService_SubmitChallengeResponse_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(SubmitChallengeResponseRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CheckoutServiceServer).SubmitChallengeResponse(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/SubmitChallengeResponse"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CheckoutServiceServer).SubmitChallengeResponse(ctx, req.(*SubmitChallengeResponseRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _CheckoutService_GetNarrativeStatus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetNarrativeStatusRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CheckoutServiceServer).GetNarrativeStatus(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetNarrativeStatus"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CheckoutServiceServer).GetNarrativeStatus(ctx, req.(*GetNarrativeStatusRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// InitiateCheckoutRequest represents the proto InitiateCheckoutRequest message.
type InitiateCheckoutRequest struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
	CardNumber    string `json:"card_number"`
	CardCountry   string `json:"card_country"`
	IPCountry     string `json:"ip_country"`
	UserHistory   int32  `json:"user_history"`
}

// RiskAssessmentMsg represents the proto RiskAssessment message.
type RiskAssessmentMsg struct {
	RiskLevel      string   `json:"risk_level"`
	Narrative      string   `json:"narrative,omitempty"`
	Reasons        []string `json:"reasons"`
	RiskScore      int32    `json:"risk_score"`
	StepUpRequired bool     `json:"step_up_required"`
}

// ChallengeMsg represents the proto Challenge message.
type ChallengeMsg struct {
	Method   string `json:"method"`
	Issuer   string `json:"issuer"`
	Endpoint string `json:"endpoint"`
}

// InitiateCheckoutResponse represents the proto InitiateCheckoutResponse message.
type InitiateCheckoutResponse struct {
	Risk          *RiskAssessmentMsg `json:"risk"`
	Challenge     *ChallengeMsg      `json:"challenge,omitempty"`
	Status        string             `json:"status"`
	TransactionID string             `json:"transaction_id,omitempty"`
	NextStep      string             `json:"next_step,omitempty"`
	Message       string             `json:"message"`
}

// SubmitChallengeResponseRequest represents the proto SubmitChallengeResponseRequest message.
type SubmitChallengeResponseRequest struct {
	TransactionID    string `json:"transaction_id"`
	ChallengeCode    string `json:"challenge_code"`
	VerificationCode string `json:"verification_code"`
	CardNumber       string `json:"card_number"`
}

// SubmitChallengeResponseResponse represents the proto SubmitChallengeResponseResponse message.
type SubmitChallengeResponseResponse struct {
	TransactionID  string `json:"transaction_id,omitempty"`
	PaymentMessage string `json:"payment_message,omitempty"`
	Message        string `json:"message"`
	RiskScore      int32  `json:"risk_score,omitempty"`
	Success        bool   `json:"success"`
}

// GetNarrativeStatusRequest represents the proto GetNarrativeStatusRequest message.
type GetNarrativeStatusRequest struct{}

// GetNarrativeStatusResponse represents the proto GetNarrativeStatusResponse message.
type GetNarrativeStatusResponse struct {
	Model          string `json:"model"`
	BaseURL        string `json:"base_url"`
	Configured     bool   `json:"configured"`
	APIKeyProvided bool   `json:"api_key_provided"`
}
