package pasetotoken

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/config"
)

func newTestManager(t *testing.T, keys Keys) *Manager {
	t.Helper()
	m, err := New(Config{
		Mode:      keys.Mode,
		Issuer:    "officehours",
		Audience:  "officehours",
		AccessTTL: time.Minute,
	}, keys)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	for _, keys := range []Keys{NewLocalKeys(), NewPublicKeys()} {
		t.Run(string(keys.Mode), func(t *testing.T) {
			m := newTestManager(t, keys)

			sid := uuid.New()
			sub := Subject{UserID: uuid.New(), Role: "professor", SessionID: &sid}

			access, err := m.IssueAccess(sub)
			if err != nil {
				t.Fatalf("IssueAccess() error = %v", err)
			}
			claims, err := m.Verify(access)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}

			if claims.Type != TokenTypeAccess {
				t.Errorf("Type = %q, want access", claims.Type)
			}
			if claims.UserID != sub.UserID {
				t.Errorf("UserID = %s, want %s", claims.UserID, sub.UserID)
			}
			if claims.Role != "professor" {
				t.Errorf("Role = %q, want professor", claims.Role)
			}
			if claims.SessionID == nil || *claims.SessionID != sid {
				t.Errorf("SessionID = %v, want %s", claims.SessionID, sid)
			}
			if claims.IsExpired() {
				t.Error("fresh token reported expired")
			}

			refresh, err := m.IssueRefresh(sub)
			if err != nil {
				t.Fatalf("IssueRefresh() error = %v", err)
			}
			rc, err := m.Verify(refresh)
			if err != nil {
				t.Fatalf("Verify(refresh) error = %v", err)
			}
			if rc.Type != TokenTypeRefresh {
				t.Errorf("refresh Type = %q", rc.Type)
			}
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	m := newTestManager(t, NewLocalKeys())
	other := newTestManager(t, NewLocalKeys())

	tok, err := other.IssueAccess(Subject{UserID: uuid.New(), Role: "student"})
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"foreign key", tok},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			var invalid ErrInvalidToken
			if !errors.As(err, &invalid) {
				t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewValidatesConfig(t *testing.T) {
	keys := NewLocalKeys()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"mode mismatch", Config{Mode: ModePublic, Issuer: "i", Audience: "a"}},
		{"missing issuer", Config{Mode: ModeLocal, Audience: "a"}},
		{"missing audience", Config{Mode: ModeLocal, Issuer: "i"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, keys)
			var cfgErr ErrConfig
			if !errors.As(err, &cfgErr) {
				t.Fatalf("New() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestNewPasetoManagerKeys(t *testing.T) {
	local := NewLocalKeys()
	pub := NewPublicKeys()

	tests := []struct {
		name       string
		paseto     config.PasetoConfig
		production bool
		wantKey    string // ErrConfig.Key; empty means success
		wantMode   Mode
	}{
		{"local from hex", config.PasetoConfig{Mode: "local", LocalKeyHex: local.Symmetric.ExportHex()}, true, "", ModeLocal},
		{"empty mode is local", config.PasetoConfig{LocalKeyHex: local.Symmetric.ExportHex()}, true, "", ModeLocal},
		{"ephemeral key in development", config.PasetoConfig{Mode: "local"}, false, "", ModeLocal},
		{"local key required in production", config.PasetoConfig{Mode: "local"}, true, "local_key_hex", ""},
		{"bad local hex", config.PasetoConfig{Mode: "local", LocalKeyHex: "zz"}, false, "local_key_hex", ""},
		{"public from secret", config.PasetoConfig{Mode: "public", SecretKeyHex: pub.Secret.ExportHex()}, true, "", ModePublic},
		{"public needs secret", config.PasetoConfig{Mode: "public", PublicKeyHex: pub.Public.ExportHex()}, true, "secret_key_hex", ""},
		{"unknown mode", config.PasetoConfig{Mode: "v2"}, false, "mode", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Authentication.Paseto = tt.paseto
			cfg.Authentication.Paseto.Issuer = "officehours"
			cfg.Authentication.Paseto.Audience = "officehours"
			if tt.production {
				cfg.Server.Environment = "production"
			}

			m, err := NewPasetoManager(cfg)
			if tt.wantKey != "" {
				var cfgErr ErrConfig
				if !errors.As(err, &cfgErr) || cfgErr.Key != tt.wantKey {
					t.Fatalf("NewPasetoManager() error = %v, want ErrConfig for %s", err, tt.wantKey)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPasetoManager() error = %v", err)
			}

			tok, err := m.IssueAccess(Subject{UserID: uuid.New(), Role: "student"})
			if err != nil {
				t.Fatalf("IssueAccess() error = %v", err)
			}
			claims, err := m.Verify(tok)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if claims.Role != "student" || m.cfg.Mode != tt.wantMode {
				t.Errorf("role = %q mode = %q, want student/%s", claims.Role, m.cfg.Mode, tt.wantMode)
			}
		})
	}
}
