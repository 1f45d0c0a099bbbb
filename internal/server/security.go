package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/miniapp-server/internal/model"
)

var (
	_ model.SecurityLayer = (*TLSListener)(nil)
	_ model.SecurityLayer = (*PlainListener)(nil)
)

// NewSecurityLayer returns a TLS layer when enableHTTPS is set and a plain
// TCP layer otherwise.
func NewSecurityLayer(enableHTTPS bool, certFileName, privateKeyFileName string) (model.SecurityLayer, error) {
	if !enableHTTPS {
		return NewPlainListener(), nil
	}
	return NewTLSListener(certFileName, privateKeyFileName)
}

// TLSListener opens TLS listeners with a certificate loaded at construction.
type TLSListener struct {
	config *tls.Config
}

// NewTLSListener loads the certificate and private key so that a bad key
// pair fails at startup rather than on the first Listen.
func NewTLSListener(certFileName, privateKeyFileName string) (*TLSListener, error) {
	cert, err := tls.LoadX509KeyPair(certFileName, privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	return &TLSListener{
		config: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
			NextProtos:   []string{"h2", "http/1.1"},
		},
	}, nil
}

// Listen creates a TLS listener on addr.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	return tls.Listen(protocol, addr, l.config.Clone())
}

// PlainListener opens unencrypted listeners.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}
