package logging

import (
	"log/slog"
	"testing"
	"time"
)

func TestWithOperation(t *testing.T) {
	logger := slog.Default()
	result := WithOperation(logger, "availability.fetch")
	if result == nil {
		t.Error("WithOperation returned nil")
	}
}

func TestWithProvider(t *testing.T) {
	logger := slog.Default()
	result := WithProvider(logger, "google")
	if result == nil {
		t.Error("WithProvider returned nil")
	}
}

func TestWithConnection(t *testing.T) {
	logger := slog.Default()
	result := WithConnection(logger, "conn-1")
	if result == nil {
		t.Error("WithConnection returned nil")
	}
}

func TestProviderAttr(t *testing.T) {
	attr := Provider("microsoft")
	if attr.Key != KeyProvider {
		t.Errorf("Provider key = %q, want %q", attr.Key, KeyProvider)
	}
	if attr.Value.String() != "microsoft" {
		t.Errorf("Provider value = %q, want %q", attr.Value.String(), "microsoft")
	}
}

func TestConnectionAttr(t *testing.T) {
	attr := Connection("conn-42")
	if attr.Key != KeyConnection {
		t.Errorf("Connection key = %q, want %q", attr.Key, KeyConnection)
	}
	if attr.Value.String() != "conn-42" {
		t.Errorf("Connection value = %q, want %q", attr.Value.String(), "conn-42")
	}
}

func TestStatusAttr(t *testing.T) {
	attr := Status(StatusSuccess)
	if attr.Key != KeyStatus {
		t.Errorf("Status key = %q, want %q", attr.Key, KeyStatus)
	}
	if attr.Value.String() != StatusSuccess {
		t.Errorf("Status value = %q, want %q", attr.Value.String(), StatusSuccess)
	}
}

func TestDurationAttr(t *testing.T) {
	attr := Duration(250 * time.Millisecond)
	if attr.Key != KeyDuration {
		t.Errorf("Duration key = %q, want %q", attr.Key, KeyDuration)
	}
}

func TestErr(t *testing.T) {
	t.Run("nil error returns empty group", func(t *testing.T) {
		attr := Err(nil)
		if attr.Key != "" {
			t.Errorf("Err(nil) key = %q, want empty", attr.Key)
		}
	})

	t.Run("non-nil error", func(t *testing.T) {
		attr := Err(errTest)
		if attr.Key != KeyError {
			t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
		}
		if attr.Value.String() != "boom" {
			t.Errorf("Err value = %q, want %q", attr.Value.String(), "boom")
		}
	})
}

type testError string

func (e testError) Error() string { return string(e) }

var errTest = testError("boom")

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "empty token", token: "", want: "<empty>"},
		{name: "non-empty token", token: "ya29.secret", want: "[token:11 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}
