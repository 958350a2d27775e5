package gate

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
)

// DefaultPublicMethods lets load balancers probe health without a token.
var DefaultPublicMethods = []string{
	grpc_health_v1.Health_Check_FullMethodName,
	grpc_health_v1.Health_Watch_FullMethodName,
}

// GRPCGate checks bearer tokens on gRPC calls. Methods in the public set
// skip the check.
type GRPCGate struct {
	verifier Verifier
	logger   logging.Logger
	public   map[string]struct{}
}

func NewGRPCGate(verifier Verifier, logger logging.Logger, publicMethods ...string) *GRPCGate {
	public := make(map[string]struct{}, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = struct{}{}
	}
	return &GRPCGate{verifier: verifier, logger: logger.With("module", "grpc_gate"), public: public}
}

// authorize returns ctx carrying the caller's claims, or an
// Unauthenticated status.
func (g *GRPCGate) authorize(ctx context.Context, method string) (context.Context, error) {
	if _, ok := g.public[method]; ok {
		return ctx, nil
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(strings.ToLower(common.AuthorizationHeaderName)); len(values) > 0 {
			header = values[0]
		}
	}

	token, err := bearerToken(header)
	if err != nil {
		g.logger.Info(ctx, "rejected", "method", method, "reason", err.Error())
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		g.logger.Info(ctx, "rejected", "method", method, "reason", reason(err))
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	return auth.WithClaims(ctx, claims), nil
}

func (g *GRPCGate) UnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	ctx, err := g.authorize(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

type authorizedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authorizedStream) Context() context.Context {
	return s.ctx
}

func (g *GRPCGate) StreamInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := g.authorize(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &authorizedStream{ServerStream: ss, ctx: ctx})
}
