package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/carhire/pkg/cryptox"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
)

// signingKeyID is the kid stamped on every token the development API mints.
const signingKeyID = "devapi-1"

// InitSigningKey returns the token signer and a verifier for its tokens.
//
// With SigningKeyFile set the key is loaded from disk, or generated and
// written there on first start, so tokens survive restarts. Without it a
// fresh key is generated and every earlier token stops verifying.
func InitSigningKey(cfg Config, logger *slog.Logger) (jwtx.Signer, jwtx.Verifier, error) {
	pemKey, err := cryptox.LoadOrGenerateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("signing key: %w", err)
	}
	if cfg.SigningKeyFile != "" {
		logger.Info("persistent signing key loaded", "path", cfg.SigningKeyFile)
	} else {
		logger.Warn("ephemeral signing key generated, earlier tokens are now invalid")
	}

	signer, err := jwtx.NewSignerEdDSA(signingKeyID, pemKey)
	if err != nil {
		return nil, nil, err
	}
	verifier, err := jwtx.NewCommonEdDSA(signer, cfg.Issuer)
	if err != nil {
		return nil, nil, err
	}
	return signer, verifier, nil
}
