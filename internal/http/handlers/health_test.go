package handlers

import (
	"context"
	"testing"

	"github.com/jmylchreest/localtv/internal/playlist"
	"github.com/jmylchreest/localtv/internal/rotation"
	"github.com/jmylchreest/localtv/internal/service"
	"github.com/jmylchreest/localtv/internal/testutil"
)

func TestHealthHandler_GetLivez(t *testing.T) {
	handler := NewHealthHandler("1.0.0")

	output, err := handler.GetLivez(context.Background(), &LivezInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output == nil {
		t.Fatal("expected non-nil output")
	}

	if output.Body.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", output.Body.Status)
	}
}

func TestHealthHandler_GetReadyz(t *testing.T) {
	t.Run("returns not_ready when channel not configured", func(t *testing.T) {
		handler := NewHealthHandler("1.0.0")

		output, err := handler.GetReadyz(context.Background(), &ReadyzInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.Body.Status != "not_ready" {
			t.Errorf("expected status 'not_ready', got '%s'", output.Body.Status)
		}

		if output.Body.Components["channel"] != "not_configured" {
			t.Errorf("expected channel component to be 'not_configured', got '%s'", output.Body.Components["channel"])
		}
	})

	t.Run("returns not_ready when channel is empty", func(t *testing.T) {
		channel := service.NewChannelService(playlist.NewLoader(nil), rotation.NewSeededRand(1))
		handler := NewHealthHandler("1.0.0").WithChannel(channel.Status)

		output, err := handler.GetReadyz(context.Background(), &ReadyzInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.Body.Status != "not_ready" {
			t.Errorf("expected status 'not_ready', got '%s'", output.Body.Status)
		}

		if output.Body.Components["channel"] != "empty" {
			t.Errorf("expected channel component to be 'empty', got '%s'", output.Body.Components["channel"])
		}
	})

	t.Run("returns ready when channel has items", func(t *testing.T) {
		channel := service.NewChannelService(playlist.NewLoader(nil), rotation.NewSeededRand(1))
		channel.Load(testutil.Numbered("show", 3))
		handler := NewHealthHandler("1.0.0").WithChannel(channel.Status)

		output, err := handler.GetReadyz(context.Background(), &ReadyzInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.Body.Status != "ready" {
			t.Errorf("expected status 'ready', got '%s'", output.Body.Status)
		}

		if output.Body.Components["channel"] != "ok" {
			t.Errorf("expected channel component to be 'ok', got '%s'", output.Body.Components["channel"])
		}
	})
}

func TestHealthHandler_GetHealth(t *testing.T) {
	channel := service.NewChannelService(playlist.NewLoader(nil), rotation.NewSeededRand(1))
	channel.Load(testutil.Numbered("show", 4))
	handler := NewHealthHandler("1.0.0").WithChannel(channel.Status)

	output, err := handler.GetHealth(context.Background(), &HealthInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output == nil {
		t.Fatal("expected non-nil output")
	}

	if output.Body.Status != "healthy" {
		t.Errorf("expected status 'healthy', got '%s'", output.Body.Status)
	}

	if output.Body.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got '%s'", output.Body.Version)
	}

	if output.Body.CPUInfo.Cores <= 0 {
		t.Errorf("expected positive core count, got %d", output.Body.CPUInfo.Cores)
	}

	if output.Body.Channel == nil {
		t.Fatal("expected channel health")
	}

	if output.Body.Channel.Items != 4 {
		t.Errorf("expected 4 channel items, got %d", output.Body.Channel.Items)
	}

	if output.Body.Checks["channel"] != "ok" {
		t.Errorf("expected channel check 'ok', got '%s'", output.Body.Checks["channel"])
	}
}
