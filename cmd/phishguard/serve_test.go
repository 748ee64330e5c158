package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()
	flag := cmd.Flags().Lookup("listen")
	if flag == nil {
		t.Fatal("expected listen flag")
	}
	if flag.Shorthand != "l" {
		t.Errorf("expected shorthand 'l', got %q", flag.Shorthand)
	}
	if cmd.Flags().Lookup("lookalike") == nil {
		t.Error("expected lookalike flag")
	}
}

func TestListenAndServe(t *testing.T) {
	t.Parallel()

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		hs := &http.Server{
			Addr:              "127.0.0.1:0",
			Handler:           http.NotFoundHandler(),
			ReadHeaderTimeout: time.Second,
		}
		ctx, cancel := context.WithCancel(context.Background())
		listening := make(chan struct{})

		done := make(chan error, 1)
		go func() {
			done <- listenAndServe(ctx, hs, func(string) { close(listening) })
		}()

		<-listening
		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected a clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop after cancel")
		}
	})

	t.Run("reports a bind failure", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		defer ln.Close()

		hs := &http.Server{
			Addr:              ln.Addr().String(),
			Handler:           http.NotFoundHandler(),
			ReadHeaderTimeout: time.Second,
		}
		if err := listenAndServe(context.Background(), hs, func(string) {}); err == nil {
			t.Error("expected an error for an address in use")
		}
	})
}

func TestServeCmdInvalidListen(t *testing.T) {
	t.Parallel()

	if _, _, err := runCLI(t, "", "serve", "--backend", "memory", "--listen", "no-port"); err == nil {
		t.Error("expected a configuration error for an address without a port")
	}
}
