package grpcserver

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/guardian/gate"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
)

func TestServer_HealthPublicReflectionProtected(t *testing.T) {
	secret, err := auth.NewSigningSecret([]byte(strings.Repeat("s", 64)))
	if err != nil {
		t.Fatalf("secret: %v", err)
	}
	iss, _ := auth.NewTokenIssuer(secret)
	ver, _ := auth.NewTokenVerifier(secret)

	g := gate.NewGRPCGate(ver, logging.NewDiscardLogger(), gate.DefaultPublicMethods...)
	s := NewGRPCServer("bufnet", g, logging.NewDiscardLogger())

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer callCancel()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(callCtx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("unexpected health status %v", resp.GetStatus())
	}

	refl := reflectionpb.NewServerReflectionClient(conn)
	list := &reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{ListServices: "*"},
	}

	stream, err := refl.ServerReflectionInfo(callCtx)
	if err == nil {
		_ = stream.Send(list)
		_, err = stream.Recv()
	}
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated for reflection without token, got %v", err)
	}

	token, err := iss.Issue(auth.Subject{ID: "u1", Name: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	authed := metadata.AppendToOutgoingContext(callCtx, "authorization", "Bearer "+token)
	stream, err = refl.ServerReflectionInfo(authed)
	if err != nil {
		t.Fatalf("reflection: %v", err)
	}
	if err := stream.Send(list); err != nil {
		t.Fatalf("reflection send: %v", err)
	}
	if _, err := stream.Recv(); err != nil {
		t.Fatalf("reflection recv: %v", err)
	}
	_ = stream.CloseSend()
	callCancel()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
