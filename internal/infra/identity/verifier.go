package identity

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
)

const (
	secureTokenIssuer = "https://securetoken.google.com/"
	secureTokenJWKS   = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

// Identity is what a verified ID token says about the signed-in user.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*Identity, error)
}

// IDTokenVerifier checks ID tokens minted by the hosted identity service for one project.
type IDTokenVerifier struct {
	verifier *oidc.IDTokenVerifier
}

var _ TokenVerifier = (*IDTokenVerifier)(nil)

// NewIDTokenVerifier fetches signing keys lazily; ctx must outlive the verifier.
func NewIDTokenVerifier(ctx context.Context, projectID string) *IDTokenVerifier {
	keys := oidc.NewRemoteKeySet(ctx, secureTokenJWKS)
	return newIDTokenVerifier(projectID, keys)
}

func newIDTokenVerifier(projectID string, keys oidc.KeySet) *IDTokenVerifier {
	return &IDTokenVerifier{
		verifier: oidc.NewVerifier(secureTokenIssuer+projectID, keys, &oidc.Config{
			ClientID: projectID,
		}),
	}
}

type idTokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (v *IDTokenVerifier) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	tok, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid id token")
	}

	var claims idTokenClaims
	if err := tok.Claims(&claims); err != nil {
		return nil, errors.Wrap(err, "failed to decode token claims")
	}
	if tok.Subject == "" {
		return nil, errors.New("token missing subject")
	}

	return &Identity{
		UID:     tok.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
