package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veralix/certgen/config"
)

// OriluxService talks to the Oriluxchain jewelry certification API.
type OriluxService struct {
	config     *config.OriluxConfig
	httpClient *http.Client
}

// OriluxCertifyRequest is the certification payload submitted to the chain
type OriluxCertifyRequest struct {
	ItemID         string   `json:"item_id"`
	JewelryType    string   `json:"jewelry_type"`
	Material       string   `json:"material"`
	Purity         string   `json:"purity"`
	Weight         float64  `json:"weight"`
	Stones         []string `json:"stones"`
	Jeweler        string   `json:"jeweler"`
	Manufacturer   string   `json:"manufacturer"`
	OriginCountry  string   `json:"origin_country"`
	CreationDate   string   `json:"creation_date"`
	Description    string   `json:"description"`
	Images         []string `json:"images"`
	EstimatedValue float64  `json:"estimated_value"`
	Owner          string   `json:"owner"`
	Issuer         string   `json:"issuer"`
	CertificateID  string   `json:"certificate_id"`
}

// OriluxCertifyResponse is the API's answer to a certification request
type OriluxCertifyResponse struct {
	TransactionHash string `json:"transaction_hash"`
	BlockchainTx    string `json:"blockchain_tx"`
	CertificateID   string `json:"certificate_id"`
	BlockNumber     int64  `json:"block_number"`
	VerificationURL string `json:"verification_url"`
}

func NewOriluxService(cfg *config.OriluxConfig) *OriluxService {
	return &OriluxService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Certify submits a certification record to Oriluxchain. A non-2xx answer is
// returned as an error; the caller decides whether to fall back.
func (s *OriluxService) Certify(ctx context.Context, payload *OriluxCertifyRequest) (*OriluxCertifyResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal certify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL+"/api/jewelry/certify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oriluxchain API error: %d %s", resp.StatusCode, string(respBody))
	}

	var result OriluxCertifyResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(respBody))
	}

	return &result, nil
}

// ExplorerCertificateURL is where a certificate can be inspected when the
// API did not hand back its own verification link.
func (s *OriluxService) ExplorerCertificateURL(certificateID string) string {
	base := s.config.ExplorerURL
	if base == "" {
		base = s.config.APIURL
	}
	return fmt.Sprintf("%s/explorer/certificate/%s", base, certificateID)
}
