package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
)

// InitKeys generates the process's EdDSA signing keys. They live only in
// memory: every access token issued before a restart stops verifying, and
// clients recover through their stored refresh token.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	logger.Info("initializing ephemeral key manager", "num_keys", cfg.NumKeys)

	keyManager, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
	}

	logger.Info("generated ephemeral signing keys",
		"algorithm", keyManager.Algorithm(),
		"num_keys", keyManager.NumSigners(),
		"issuer", cfg.Issuer,
	)
	logger.Warn("access tokens issued before this start are now invalid")

	return keyManager, nil
}
