package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/miniapp-server/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())

	tests := []struct {
		name     string
		handler  grpc.UnaryHandler
		wantCode codes.Code
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return "ok", nil
			},
			wantCode: codes.OK,
		},
		{
			name: "grpc error propagates",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
			},
			wantCode: codes.Unauthenticated,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "ok", resp)
				return
			}
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestLogging_HandleGRPCStream(t *testing.T) {
	lg := NewLogging(testutil.MakeNoopLogger())
	info := &grpc.StreamServerInfo{FullMethod: "/grpc.reflection.v1.ServerReflection/ServerReflectionInfo", IsServerStream: true}

	called := false
	err := lg.HandleGRPCStream(nil, nil, info, func(srv interface{}, stream grpc.ServerStream) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, codes.OK, codeOf(nil))
	assert.Equal(t, codes.NotFound, codeOf(status.Error(codes.NotFound, "missing")))
	assert.Equal(t, codes.Internal, codeOf(errors.New("boom")))
}
