package server

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/dtroode/miniapp-server/internal/mocks"
)

func TestGRPCServer_Address(t *testing.T) {
	s := NewGRPCServer(grpc.NewServer(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestGRPCServer_Stop(t *testing.T) {
	s := NewGRPCServer(grpc.NewServer(), ":0")
	assert.NoError(t, s.Stop(context.Background()))
}

func TestGRPCServer_Start_ListenError(t *testing.T) {
	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":0").Return(nil, errors.New("address in use"))

	err := NewGRPCServer(grpc.NewServer(), ":0").Start(sec)
	assert.ErrorContains(t, err, "failed to listen")
}

func TestGRPCServer_Start_ServesUntilStopped(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer(grpc.NewServer(), ":0")
	sec := mocks.NewSecurityLayer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	listening := make(chan struct{})
	sec.On("Listen", "tcp", ":0").Return(ln, nil).Run(func(mock.Arguments) { close(listening) })

	result := make(chan error, 1)
	go func() { result <- srv.Start(sec) }()
	<-listening

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-result)
}
