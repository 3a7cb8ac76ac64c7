package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/veralix/certgen/config"
	"github.com/veralix/certgen/pkg/logger"
)

// SocialImageService asks a generative image gateway for a shareable
// certificate preview. Everything about it is best-effort: any failure
// yields an empty URI and the issuance carries on.
type SocialImageService struct {
	config     *config.AIConfig
	pinata     *PinataService
	httpClient *http.Client
}

type aiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type aiChatRequest struct {
	Model      string      `json:"model"`
	Messages   []aiMessage `json:"messages"`
	Modalities []string    `json:"modalities"`
}

type aiChatResponse struct {
	Choices []struct {
		Message struct {
			Images []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

func NewSocialImageService(cfg *config.AIConfig, pinata *PinataService) *SocialImageService {
	return &SocialImageService{
		config: cfg,
		pinata: pinata,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Generate produces and pins a social preview image, returning its ipfs://
// URI or "" when anything goes wrong.
func (s *SocialImageService) Generate(ctx context.Context, jewelryName, certificateID string) string {
	if s.config.APIKey == "" {
		logger.Warn(ctx, "social image skipped: no AI gateway key configured")
		return ""
	}

	prompt := fmt.Sprintf(`Create a premium luxury certificate social media image for %q (ID: %s).
Design requirements:
- Elegant gold and black color scheme
- "VERALIX CERTIFIED" as main text
- Certificate ID %q prominently displayed
- Luxury jewelry theme with ornamental borders
- Professional and prestigious appearance
- Suitable for social media sharing (1200x630px)`, jewelryName, certificateID, certificateID)

	body, err := json.Marshal(aiChatRequest{
		Model:      s.config.Model,
		Messages:   []aiMessage{{Role: "user", Content: prompt}},
		Modalities: []string{"image", "text"},
	})
	if err != nil {
		logger.Warn(ctx, "social image skipped: request marshal failed", "error", err)
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.GatewayURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		logger.Warn(ctx, "social image skipped: request build failed", "error", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Warn(ctx, "social image skipped: gateway unreachable", "error", err)
		return ""
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn(ctx, "social image skipped: gateway error", "status", resp.StatusCode)
		return ""
	}

	var parsed aiChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		logger.Warn(ctx, "social image skipped: unparseable response", "error", err)
		return ""
	}
	if len(parsed.Choices) == 0 || len(parsed.Choices[0].Message.Images) == 0 {
		logger.Warn(ctx, "social image skipped: no image in response")
		return ""
	}

	dataURI := parsed.Choices[0].Message.Images[0].ImageURL.URL
	imageData, err := decodeImageDataURI(dataURI)
	if err != nil {
		logger.Warn(ctx, "social image skipped: bad image payload", "error", err)
		return ""
	}

	uri, err := s.pinata.PinFile(ctx, imageData, certificateID+"-social.png", "social-image")
	if err != nil {
		logger.Warn(ctx, "social image skipped: pin failed", "error", err)
		return ""
	}

	logger.Info(ctx, "social image generated", "uri", uri)
	return uri
}

// decodeImageDataURI strips the data:image/...;base64, prefix and decodes
// the payload.
func decodeImageDataURI(uri string) ([]byte, error) {
	idx := strings.Index(uri, "base64,")
	if idx < 0 {
		return nil, fmt.Errorf("not a base64 data URI")
	}
	return base64.StdEncoding.DecodeString(uri[idx+len("base64,"):])
}
