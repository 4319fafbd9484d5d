package pasetotoken

import (
	"log/slog"
	"strings"
	"time"

	paseto "aidanwoods.dev/go-paseto"

	"github.com/Alijeyrad/officehours_backend/config"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local (encrypted)
	ModePublic Mode = "public" // v4.public (signed)
)

// Keys holds the key material for one Mode. A public-mode Keys without
// Secret can verify but not issue.
type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey
	Secret    *paseto.V4AsymmetricSecretKey
	Public    *paseto.V4AsymmetricPublicKey
}

func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}

// ErrConfig names the authentication.paseto key that is wrong, when there
// is one.
type ErrConfig struct {
	Key string
	Msg string
}

func (e ErrConfig) Error() string {
	if e.Key == "" {
		return "paseto config error: " + e.Msg
	}
	return "paseto config error: authentication.paseto." + e.Key + ": " + e.Msg
}

// NewPasetoManager builds the token manager from authentication.paseto.
// Outside production an empty local_key_hex gets a throwaway key, so every
// restart logs all students and professors out.
func NewPasetoManager(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto

	keys, err := keysFromConfig(p, cfg.IsProduction())
	if err != nil {
		return nil, err
	}

	return New(Config{
		Mode:       keys.Mode,
		Issuer:     p.Issuer,
		Audience:   p.Audience,
		AccessTTL:  time.Duration(p.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(p.RefreshTTLDays) * 24 * time.Hour,
	}, keys)
}

func keysFromConfig(p config.PasetoConfig, production bool) (Keys, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(p.Mode))) {
	case "", ModeLocal:
		hex := strings.TrimSpace(p.LocalKeyHex)
		if hex == "" {
			if production {
				return Keys{}, ErrConfig{Key: "local_key_hex", Msg: "required in production"}
			}
			slog.Warn("authentication.paseto.local_key_hex is empty, using an ephemeral key")
			return NewLocalKeys(), nil
		}
		k, err := paseto.V4SymmetricKeyFromHex(hex)
		if err != nil {
			return Keys{}, ErrConfig{Key: "local_key_hex", Msg: err.Error()}
		}
		return Keys{Mode: ModeLocal, Symmetric: &k}, nil

	case ModePublic:
		out := Keys{Mode: ModePublic}
		if hex := strings.TrimSpace(p.SecretKeyHex); hex != "" {
			sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(hex)
			if err != nil {
				return Keys{}, ErrConfig{Key: "secret_key_hex", Msg: err.Error()}
			}
			pk := sk.Public()
			out.Secret, out.Public = &sk, &pk
		}
		if hex := strings.TrimSpace(p.PublicKeyHex); hex != "" {
			pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(hex)
			if err != nil {
				return Keys{}, ErrConfig{Key: "public_key_hex", Msg: err.Error()}
			}
			out.Public = &pk
		}
		// The API issues tokens at login, so a verify-only key is not enough.
		if out.Secret == nil {
			return Keys{}, ErrConfig{Key: "secret_key_hex", Msg: "required in public mode"}
		}
		return out, nil

	default:
		return Keys{}, ErrConfig{Key: "mode", Msg: "must be local or public"}
	}
}
