package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"seedlink/internal/domain"
)

// HTTP talks to the import endpoints under Base, which ends with the API
// version, e.g. https://api.censo.co/v1/.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client rooted at base. A nil client means
// http.DefaultClient.
func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &HTTP{Base: base, HTTP: client}
}

var (
	_ domain.ImportRelay = (*HTTP)(nil)
	_ domain.OwnerRelay  = (*HTTP)(nil)
)

// GetImportState fetches the channel's current import state.
func (c *HTTP) GetImportState(ctx context.Context, channel domain.Channel) (domain.ImportState, error) {
	var out domain.GetImportDataResponse
	if err := c.do(ctx, http.MethodGet, importPath(channel), nil, &out); err != nil {
		return nil, err
	}
	return out.ImportState, nil
}

// SetImportEncryptedData delivers the ECIES ciphertext for the channel.
func (c *HTTP) SetImportEncryptedData(ctx context.Context, channel domain.Channel, encrypted domain.Base64Blob) error {
	return c.do(ctx, http.MethodPost, importPath(channel)+"/encrypted",
		domain.SetImportEncryptedDataRequest{EncryptedData: encrypted}, nil)
}

// AcceptImport claims the channel for the owner device.
func (c *HTTP) AcceptImport(ctx context.Context, channel domain.Channel, req domain.AcceptImportRequest) error {
	return c.do(ctx, http.MethodPost, importPath(channel)+"/accept", req, nil)
}

func importPath(channel domain.Channel) string {
	return "import/" + url.PathEscape(channel.String())
}

func (c *HTTP) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	u := c.Base + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, URL: u, Code: resp.StatusCode, Status: resp.Status}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("relay %s %s: decode: %w", method, u, err)
	}
	return nil
}
