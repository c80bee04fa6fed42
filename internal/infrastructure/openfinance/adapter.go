package openfinance

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"centavo/internal/domain/connection"
)

// Adapter probes one institution's provider-side connection through the Open
// Finance API and translates the HTTP outcome into a health result.
type Adapter struct {
	client       *Client
	providerCode string
}

var _ connection.Adapter = (*Adapter)(nil)

func NewAdapter(client *Client, providerCode string) *Adapter {
	return &Adapter{client: client, providerCode: providerCode}
}

func (a *Adapter) HealthCheck(ctx context.Context, institutionID string) (connection.HealthResult, error) {
	resp, statusCode, err := a.client.CheckConnection(ctx, a.providerCode)

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return connection.HealthResult{
			NeedsReauth:  true,
			ErrorMessage: "provider consent expired",
		}, nil
	case err != nil && statusCode == 0:
		// Transport-level failure: surface the error so the caller can
		// distinguish timeouts from provider rejections.
		return connection.HealthResult{}, err
	case err != nil:
		return connection.HealthResult{
			ErrorMessage: fmt.Sprintf("provider returned status %d", statusCode),
		}, nil
	case !resp.Success || !isHealthyStatus(resp.Status):
		return connection.HealthResult{
			ErrorMessage: fmt.Sprintf("provider reports connection status %q", resp.Status),
		}, nil
	default:
		return connection.HealthResult{Success: true}, nil
	}
}

func isHealthyStatus(status string) bool {
	switch strings.ToUpper(status) {
	case "UPDATED", "CONNECTED", "OK":
		return true
	default:
		return false
	}
}
