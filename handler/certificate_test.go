package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/veralix/certgen/config"
	"github.com/veralix/certgen/model"
	"github.com/veralix/certgen/service"
)

type stubDownloader struct{}

func (stubDownloader) Download(ctx context.Context, path string) ([]byte, error) {
	return nil, errors.New("object not found")
}

// newIssuanceRouter wires the full pipeline against httptest backends:
// pinning succeeds, the content-registry chain is down, and no EVM key is
// configured.
func newIssuanceRouter(t *testing.T, store service.Datastore) *gin.Engine {
	t.Helper()

	pinServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.PinResponse{IpfsHash: "QmHandler"})
	}))
	t.Cleanup(pinServer.Close)

	oriluxDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(oriluxDown.Close)

	pinata := service.NewPinataService(&config.PinataConfig{APIURL: pinServer.URL, JWT: "jwt"})
	orilux := service.NewOriluxService(&config.OriluxConfig{APIURL: oriluxDown.URL, APIKey: "key"})
	evm, err := service.NewEVMService(&config.EVMConfig{ExplorerURL: "https://bscscan.com", ChainID: 56})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	resolver := service.NewImageResolver(stubDownloader{})
	renderer, err := service.NewRenderer(resolver, "Oriluxchain + BSC Mainnet")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	social := service.NewSocialImageService(&config.AIConfig{}, pinata)

	issuer := service.NewIssuer(store, pinata, resolver, service.NewMinter(orilux, evm), renderer, social, &config.PublicConfig{
		BaseURL:        "https://veralix.io",
		BlockchainName: "Oriluxchain + BSC Mainnet",
	})

	h := NewCertificateHandler(issuer, store)
	router := gin.New()
	router.POST("/api/certificates/generate", h.Generate)
	router.GET("/api/certificates/:certificateId", h.Get)
	return router
}

func TestGenerateCertificate(t *testing.T) {
	store := service.NewMemoryStore()
	store.SaveJewelryItem(&model.JewelryItem{
		ID:        "item-1",
		UserID:    "user-1",
		Name:      "Gold Ring",
		Type:      "ring",
		Materials: []string{"gold"},
		Weight:    5,
	})
	router := newIssuanceRouter(t, store)

	req := httptest.NewRequest("POST", "/api/certificates/generate", strings.NewReader(`{"jewelryItemId":"item-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success     bool                `json:"success"`
		Certificate service.IssueResult `json:"certificate"`
		Logs        []string            `json:"logs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if !body.Success {
		t.Error("Expected success=true")
	}
	if !regexp.MustCompile(`^VRX-\d{8}-[A-Z0-9]{6}$`).MatchString(body.Certificate.CertificateID) {
		t.Errorf("Unexpected certificate id '%s'", body.Certificate.CertificateID)
	}
	if !body.Certificate.Oriluxchain.Success {
		t.Error("Expected oriluxchain fallback success")
	}
	if body.Certificate.BSCMainnet.Success {
		t.Error("Expected bscMainnet fallback without success")
	}
	if body.Certificate.DualVerification {
		t.Error("Expected dualVerification=false")
	}
	if len(body.Logs) == 0 {
		t.Error("Expected run transcript in response")
	}
}

func TestGenerateCertificateMissingItem(t *testing.T) {
	router := newIssuanceRouter(t, service.NewMemoryStore())

	req := httptest.NewRequest("POST", "/api/certificates/generate", strings.NewReader(`{"jewelryItemId":"missing"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	var body struct {
		Success bool     `json:"success"`
		Error   string   `json:"error"`
		Logs    []string `json:"logs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.Success {
		t.Error("Expected success=false")
	}
	if body.Error == "" {
		t.Error("Expected error message")
	}
	if len(body.Logs) == 0 {
		t.Error("Expected transcript alongside the error")
	}
}

func TestGenerateCertificateMissingBody(t *testing.T) {
	router := newIssuanceRouter(t, service.NewMemoryStore())

	req := httptest.NewRequest("POST", "/api/certificates/generate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestGetCertificate(t *testing.T) {
	store := service.NewMemoryStore()
	store.InsertCertificate(context.Background(), &model.CertificateRecord{
		ID:            "uuid-1",
		CertificateID: "VRX-20260115-ABC123",
		JewelryItemID: "item-1",
	})
	router := newIssuanceRouter(t, store)

	req := httptest.NewRequest("GET", "/api/certificates/VRX-20260115-ABC123", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Success     bool                    `json:"success"`
		Certificate model.CertificateRecord `json:"certificate"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.Certificate.ID != "uuid-1" {
		t.Errorf("Expected 'uuid-1', got '%s'", body.Certificate.ID)
	}
}

func TestGetCertificateNotFound(t *testing.T) {
	router := newIssuanceRouter(t, service.NewMemoryStore())

	req := httptest.NewRequest("GET", "/api/certificates/VRX-00000000-NONE00", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
