package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
)

const (
	defaultAdminBaseURL = "https://identitytoolkit.googleapis.com"
	adminScope          = "https://www.googleapis.com/auth/identitytoolkit"
)

// AccountDeleter removes sign-in accounts from the identity service.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, uid string) error
}

// AdminClient calls the identity admin REST API with a service-account token.
type AdminClient struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
}

var _ AccountDeleter = (*AdminClient)(nil)

// NewAdminClient builds an oauth2-authorized client from service-account JSON.
func NewAdminClient(ctx context.Context, projectID string, credentialsJSON []byte) (*AdminClient, error) {
	jwtCfg, err := google.JWTConfigFromJSON(credentialsJSON, adminScope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse service account credentials")
	}
	return newAdminClient(jwtCfg.Client(ctx), defaultAdminBaseURL, projectID), nil
}

func newAdminClient(httpClient *http.Client, baseURL, projectID string) *AdminClient {
	return &AdminClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		projectID:  projectID,
	}
}

func (a *AdminClient) DeleteAccount(ctx context.Context, uid string) error {
	body, err := json.Marshal(map[string]string{"localId": uid})
	if err != nil {
		return errors.Wrap(err, "failed to encode delete request")
	}

	endpoint := fmt.Sprintf("%s/v1/projects/%s/accounts:delete", a.baseURL, a.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build delete request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := a.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to delete account %s", uid)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return errors.Errorf("failed to delete account %s: status %d: %s", uid, res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
