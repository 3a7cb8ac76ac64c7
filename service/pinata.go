package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/veralix/certgen/config"
)

// pinMaxAttempts is how many times an upload is tried before the pipeline
// gives up. Without pinned content there is nothing to verify, so exhaustion
// here is the one upload failure allowed to abort an issuance.
const pinMaxAttempts = 3

// PinataService pins certificate content to IPFS through the Pinata API.
type PinataService struct {
	config     *config.PinataConfig
	httpClient *http.Client
	sleep      func(time.Duration)
}

type pinataMetadata struct {
	Name      string            `json:"name"`
	Keyvalues map[string]string `json:"keyvalues,omitempty"`
}

type pinJSONRequest struct {
	PinataContent  any            `json:"pinataContent"`
	PinataMetadata pinataMetadata `json:"pinataMetadata"`
}

// PinResponse represents the response from a pinning call
type PinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func NewPinataService(cfg *config.PinataConfig) *PinataService {
	return &PinataService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		sleep: time.Sleep,
	}
}

// PinJSON uploads a JSON document and returns its ipfs:// URI.
func (s *PinataService) PinJSON(ctx context.Context, content any, name string) (string, error) {
	body, err := json.Marshal(pinJSONRequest{
		PinataContent: content,
		PinataMetadata: pinataMetadata{
			Name: name,
			Keyvalues: map[string]string{
				"type":     "nft-metadata",
				"platform": "veralix",
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin request: %w", err)
	}

	return s.pinWithRetry(ctx, name, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL+"/pinning/pinJSONToIPFS", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.config.JWT)
		return s.doPin(req)
	})
}

// PinFile uploads a binary payload as a multipart body. fileType tags the
// payload in Pinata's metadata (certificate-html, jewelry-image, ...).
func (s *PinataService) PinFile(ctx context.Context, data []byte, name, fileType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write file payload: %w", err)
	}

	meta, err := json.Marshal(pinataMetadata{
		Name: name,
		Keyvalues: map[string]string{
			"type":     fileType,
			"platform": "veralix",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin metadata: %w", err)
	}
	if err := writer.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("failed to write metadata field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	payload := body.Bytes()
	contentType := writer.FormDataContentType()

	return s.pinWithRetry(ctx, name, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL+"/pinning/pinFileToIPFS", bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+s.config.JWT)
		return s.doPin(req)
	})
}

// pinWithRetry runs one pin attempt up to pinMaxAttempts times, waiting
// attempt*2s between tries.
func (s *PinataService) pinWithRetry(ctx context.Context, name string, attempt func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for n := 1; n <= pinMaxAttempts; n++ {
		uri, err := attempt(ctx)
		if err == nil {
			return uri, nil
		}
		lastErr = err

		if n < pinMaxAttempts {
			s.sleep(time.Duration(n) * 2 * time.Second)
		}
	}
	return "", fmt.Errorf("failed to pin %s after %d attempts: %w", name, pinMaxAttempts, lastErr)
}

func (s *PinataService) doPin(req *http.Request) (string, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("pinata API error: %d %s", resp.StatusCode, string(body))
	}

	var result PinResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}
	if result.IpfsHash == "" {
		return "", fmt.Errorf("pinata response missing IpfsHash: %s", string(body))
	}

	return "ipfs://" + result.IpfsHash, nil
}

// GatewayURL converts an ipfs:// URI into a fetchable gateway URL.
func GatewayURL(uri string) string {
	return "https://gateway.pinata.cloud/ipfs/" + strings.TrimPrefix(uri, "ipfs://")
}

// StripIPFSScheme returns the bare content hash of an ipfs:// URI.
func StripIPFSScheme(uri string) string {
	return strings.TrimPrefix(uri, "ipfs://")
}
