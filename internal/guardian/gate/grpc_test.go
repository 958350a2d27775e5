package gate

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
)

func TestUnaryInterceptor_Public(t *testing.T) {
	_, ver := newPair(t, time.Now())
	g := NewGRPCGate(ver, logging.NewDiscardLogger(), DefaultPublicMethods...)

	info := &grpc.UnaryServerInfo{FullMethod: grpc_health_v1.Health_Check_FullMethodName}
	resp, err := g.UnaryInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if ver.calls != 0 {
		t.Fatalf("verifier must not run for public methods")
	}
}

func TestUnaryInterceptor_MissingToken(t *testing.T) {
	_, ver := newPair(t, time.Now())
	g := NewGRPCGate(ver, logging.NewDiscardLogger())

	info := &grpc.UnaryServerInfo{FullMethod: "/svc.Protected/Do"}
	_, err := g.UnaryInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "unauthorized" {
		t.Fatalf("expected generic message, got %q", status.Convert(err).Message())
	}
}

func TestUnaryInterceptor_InvalidToken(t *testing.T) {
	_, ver := newPair(t, time.Now())
	g := NewGRPCGate(ver, logging.NewDiscardLogger())

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer a.b.c"))
	info := &grpc.UnaryServerInfo{FullMethod: "/svc.Protected/Do"}
	_, err := g.UnaryInterceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "unauthorized" {
		t.Fatalf("expected generic message, got %q", status.Convert(err).Message())
	}
}

func TestUnaryInterceptor_ValidToken_SetsClaims(t *testing.T) {
	iss, ver := newPair(t, time.Now())
	g := NewGRPCGate(ver, logging.NewDiscardLogger())

	token, err := iss.Issue(auth.Subject{ID: "user-123", Name: "alice"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	info := &grpc.UnaryServerInfo{FullMethod: "/svc.Protected/Do"}

	var got auth.ClaimSet
	_, err = g.UnaryInterceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = auth.ClaimsFromContext(ctx)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SubjectID != "user-123" || got.SubjectName != "alice" {
		t.Fatalf("claims not propagated in context: %+v", got)
	}
}

// End to end over an in-memory connection: the health service is public
// only when allowlisted.
func TestGate_OverBufconn(t *testing.T) {
	iss, ver := newPair(t, time.Now())

	dial := func(t *testing.T, g *GRPCGate) grpc_health_v1.HealthClient {
		t.Helper()
		lis := bufconn.Listen(1 << 20)
		srv := grpc.NewServer(
			grpc.ChainUnaryInterceptor(g.UnaryInterceptor),
			grpc.ChainStreamInterceptor(g.StreamInterceptor),
		)
		grpc_health_v1.RegisterHealthServer(srv, health.NewServer())
		go func() { _ = srv.Serve(lis) }()
		t.Cleanup(srv.Stop)

		conn, err := grpc.NewClient("passthrough:///bufnet",
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		t.Cleanup(func() { _ = conn.Close() })
		return grpc_health_v1.NewHealthClient(conn)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	public := dial(t, NewGRPCGate(ver, logging.NewDiscardLogger(), DefaultPublicMethods...))
	if _, err := public.Check(ctx, &grpc_health_v1.HealthCheckRequest{}); err != nil {
		t.Fatalf("public health check: %v", err)
	}

	locked := dial(t, NewGRPCGate(ver, logging.NewDiscardLogger()))
	_, err := locked.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	token, err := iss.Issue(auth.Subject{ID: "u1", Name: "alice"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	if _, err := locked.Check(authed, &grpc_health_v1.HealthCheckRequest{}); err != nil {
		t.Fatalf("authorized health check: %v", err)
	}

	stream, err := locked.Watch(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err == nil {
		_, err = stream.Recv()
	}
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated on stream, got %v", err)
	}

	stream, err = locked.Watch(authed, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("authorized watch: %v", err)
	}
	if _, err := stream.Recv(); err != nil {
		t.Fatalf("authorized watch recv: %v", err)
	}
}
