// Package pinata pins report bytes to IPFS through Pinata's REST API.
package pinata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

// Client is the content-addressed store the report registry writes to.
type Client interface {
	// Pin uploads the file and returns its CID.
	Pin(ctx context.Context, name string, file io.Reader) (string, error)
	GatewayURL(cid string) string
}

type client struct {
	log        *logger.Logger
	baseURL    string
	gatewayURL string
	jwt        string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	jwt := strings.TrimSpace(os.Getenv("PINATA_JWT"))
	if jwt == "" {
		return nil, fmt.Errorf("missing PINATA_JWT")
	}

	baseURL := strings.TrimSpace(os.Getenv("PINATA_API_URL"))
	if baseURL == "" {
		baseURL = "https://api.pinata.cloud"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	gatewayURL := strings.TrimSpace(os.Getenv("PINATA_GATEWAY_URL"))
	if gatewayURL == "" {
		gatewayURL = "https://gateway.pinata.cloud"
	}
	gatewayURL = strings.TrimRight(gatewayURL, "/")

	return &client{
		log:        log.With("client", "PinataClient"),
		baseURL:    baseURL,
		gatewayURL: gatewayURL,
		jwt:        jwt,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (c *client) Pin(ctx context.Context, name string, file io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		meta, _ := json.Marshal(map[string]any{"name": name})
		if err := mw.WriteField("pinataMetadata", string(meta)); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinFileToIPFS", pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("pinata response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pinata returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed pinResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("pinata response decode: %w", err)
	}
	if parsed.IpfsHash == "" {
		return "", fmt.Errorf("pinata response missing IpfsHash")
	}

	c.log.Info("Pinned file to IPFS", "name", name, "cid", parsed.IpfsHash, "size", parsed.PinSize)
	return parsed.IpfsHash, nil
}

func (c *client) GatewayURL(cid string) string {
	return fmt.Sprintf("%s/ipfs/%s", c.gatewayURL, cid)
}
