package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/veralix/certgen/config"
	"github.com/veralix/certgen/pkg/logger"
)

var certificateIDPattern = regexp.MustCompile(`^VRX-\d{8}-[A-Z0-9]{6}$`)

// pinRecorder collects everything pinned during one test run.
type pinRecorder struct {
	jsonNames []string
	fileNames []string
	htmlBody  []byte
}

func newPinServer(t *testing.T, rec *pinRecorder) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pinning/pinJSONToIPFS":
			var body pinJSONRequest
			json.NewDecoder(r.Body).Decode(&body)
			rec.jsonNames = append(rec.jsonNames, body.PinataMetadata.Name)
			json.NewEncoder(w).Encode(PinResponse{IpfsHash: "QmJson"})
		case "/pinning/pinFileToIPFS":
			r.ParseMultipartForm(1 << 20)
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("Expected file part: %v", err)
			}
			defer file.Close()
			rec.fileNames = append(rec.fileNames, header.Filename)
			if strings.HasSuffix(header.Filename, ".html") {
				rec.htmlBody, _ = io.ReadAll(file)
			}
			json.NewEncoder(w).Encode(PinResponse{IpfsHash: "QmFile"})
		default:
			t.Errorf("Unexpected pin path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestIssuer(t *testing.T, store Datastore, pinataURL, oriluxURL string, downloader ObjectDownloader) *Issuer {
	t.Helper()
	if downloader == nil {
		downloader = &fakeDownloader{}
	}
	resolver := NewImageResolver(downloader)

	pinata := newTestPinataService(pinataURL)
	minter := newTestMinter(t, oriluxURL)
	renderer, err := NewRenderer(resolver, "Oriluxchain + BSC Mainnet")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	social := NewSocialImageService(&config.AIConfig{}, pinata)

	return NewIssuer(store, pinata, resolver, minter, renderer, social, &config.PublicConfig{
		BaseURL:        "https://veralix.io",
		BlockchainName: "Oriluxchain + BSC Mainnet",
	})
}

func TestGenerateCertificateIDFormat(t *testing.T) {
	issuer := newTestIssuer(t, NewMemoryStore(), "http://unused.test", "http://unused.test", nil)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := issuer.GenerateCertificateID()
		if !certificateIDPattern.MatchString(id) {
			t.Fatalf("Expected VRX-YYYYMMDD-XXXXXX, got '%s'", id)
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Error("Expected distinct random suffixes")
	}
}

func TestIssueBothChainsDownStillSucceeds(t *testing.T) {
	oriluxDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer oriluxDown.Close()

	pins := &pinRecorder{}
	pinServer := newPinServer(t, pins)
	defer pinServer.Close()

	store := NewMemoryStore()
	store.SaveJewelryItem(testJewelryItem())
	issuer := newTestIssuer(t, store, pinServer.URL, oriluxDown.URL, nil)

	rec := logger.NewRecorder(context.Background())
	result, err := issuer.Issue(context.Background(), rec, &IssueRequest{JewelryItemID: "item-1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !certificateIDPattern.MatchString(result.CertificateID) {
		t.Errorf("Expected certificate id pattern, got '%s'", result.CertificateID)
	}
	if !result.Oriluxchain.Success {
		t.Error("Expected oriluxchain fallback to report success")
	}
	if result.Oriluxchain.Confirmed {
		t.Error("Expected oriluxchain fallback to not be confirmed")
	}
	if result.BSCMainnet.Success {
		t.Error("Expected bsc fallback to not report success")
	}
	if result.DualVerification {
		t.Error("Expected no dual verification with both chains down")
	}

	// Primary pointers mirror the oriluxchain side
	if result.TransactionHash != result.Oriluxchain.TxHash {
		t.Errorf("Expected primary hash '%s', got '%s'", result.Oriluxchain.TxHash, result.TransactionHash)
	}

	if result.VerificationURL != "https://veralix.io/verify/"+result.CertificateID {
		t.Errorf("Unexpected verification URL '%s'", result.VerificationURL)
	}
	if result.CertificateHTMLURI != "ipfs://QmFile" {
		t.Errorf("Expected pinned document URI, got '%s'", result.CertificateHTMLURI)
	}
	if result.CertificateViewURL != "https://gateway.pinata.cloud/ipfs/QmFile" {
		t.Errorf("Unexpected view URL '%s'", result.CertificateViewURL)
	}

	// Persisted record
	record, err := store.GetCertificate(context.Background(), result.CertificateID)
	if err != nil {
		t.Fatalf("Expected persisted certificate: %v", err)
	}
	if record.EVMNetwork != "BSC_PENDING" {
		t.Errorf("Expected BSC_PENDING for fallback mint, got '%s'", record.EVMNetwork)
	}
	if !record.IsVerified || record.DualVerification {
		t.Errorf("Expected verified-but-not-dual record, got is_verified=%v dual=%v", record.IsVerified, record.DualVerification)
	}

	// Cached document is byte-identical to the pinned one
	cached, ok := store.CachedHTML(result.CertificateID)
	if !ok {
		t.Fatal("Expected cached certificate document")
	}
	if cached.HTMLContent != string(pins.htmlBody) {
		t.Error("Expected cached content to match pinned bytes")
	}
	if cached.IPFSHash != "QmFile" {
		t.Errorf("Expected bare content hash 'QmFile', got '%s'", cached.IPFSHash)
	}

	// Item transitioned to certified and the run was audited
	item, _ := store.GetJewelryItem(context.Background(), "item-1")
	if !item.IsCertified {
		t.Error("Expected item to be marked certified")
	}
	if store.AuditCount() != 1 {
		t.Errorf("Expected 1 audit entry, got %d", store.AuditCount())
	}

	if len(rec.Entries()) == 0 {
		t.Error("Expected a run transcript")
	}
}

func TestIssueWithImagePinsIt(t *testing.T) {
	orilux := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(OriluxCertifyResponse{TransactionHash: "0xorilux"})
	}))
	defer orilux.Close()

	pins := &pinRecorder{}
	pinServer := newPinServer(t, pins)
	defer pinServer.Close()

	store := NewMemoryStore()
	store.SaveJewelryItem(testJewelryItem())
	downloader := &fakeDownloader{objects: map[string][]byte{
		"user-1/item-1/main.jpg": []byte("jpeg-bytes"),
	}}
	issuer := newTestIssuer(t, store, pinServer.URL, orilux.URL, downloader)

	result, err := issuer.Issue(context.Background(), logger.NewRecorder(context.Background()), &IssueRequest{JewelryItemID: "item-1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(pins.fileNames) != 2 {
		t.Fatalf("Expected image and document pins, got %v", pins.fileNames)
	}
	if pins.fileNames[0] != result.CertificateID+"-jewelry.jpg" {
		t.Errorf("Expected jewelry image pin, got '%s'", pins.fileNames[0])
	}
	if pins.fileNames[1] != result.CertificateID+".html" {
		t.Errorf("Expected document pin, got '%s'", pins.fileNames[1])
	}
	if len(pins.jsonNames) != 1 || pins.jsonNames[0] != result.CertificateID+"-metadata.json" {
		t.Errorf("Expected metadata pin, got %v", pins.jsonNames)
	}
}

func TestIssueMissingItemIsFatal(t *testing.T) {
	pins := &pinRecorder{}
	pinServer := newPinServer(t, pins)
	defer pinServer.Close()

	store := NewMemoryStore()
	issuer := newTestIssuer(t, store, pinServer.URL, "http://unused.test", nil)

	_, err := issuer.Issue(context.Background(), logger.NewRecorder(context.Background()), &IssueRequest{JewelryItemID: "missing"})
	if err == nil {
		t.Fatal("Expected error for missing item")
	}
	if store.CertificateCount() != 0 {
		t.Error("Expected no certificate to be persisted")
	}
	if len(pins.fileNames)+len(pins.jsonNames) != 0 {
		t.Error("Expected nothing to be pinned")
	}
}

func TestIssueDocumentPinExhaustionIsFatal(t *testing.T) {
	oriluxDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer oriluxDown.Close()

	pinDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer pinDown.Close()

	store := NewMemoryStore()
	store.SaveJewelryItem(testJewelryItem())
	issuer := newTestIssuer(t, store, pinDown.URL, oriluxDown.URL, nil)

	rec := logger.NewRecorder(context.Background())
	_, err := issuer.Issue(context.Background(), rec, &IssueRequest{JewelryItemID: "item-1"})
	if err == nil {
		t.Fatal("Expected error when the document cannot be pinned")
	}
	if !strings.Contains(err.Error(), "pin certificate document") {
		t.Errorf("Expected document pin failure, got '%v'", err)
	}
	if store.CertificateCount() != 0 {
		t.Error("Expected no certificate to be persisted")
	}
}

func TestIssueTwiceYieldsDistinctCertificates(t *testing.T) {
	orilux := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(OriluxCertifyResponse{TransactionHash: "0xorilux"})
	}))
	defer orilux.Close()

	pins := &pinRecorder{}
	pinServer := newPinServer(t, pins)
	defer pinServer.Close()

	store := NewMemoryStore()
	store.SaveJewelryItem(testJewelryItem())
	issuer := newTestIssuer(t, store, pinServer.URL, orilux.URL, nil)

	ctx := context.Background()
	first, err := issuer.Issue(ctx, logger.NewRecorder(ctx), &IssueRequest{JewelryItemID: "item-1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := issuer.Issue(ctx, logger.NewRecorder(ctx), &IssueRequest{JewelryItemID: "item-1"})
	if err != nil {
		t.Fatalf("Unexpected error on reissue: %v", err)
	}

	if first.CertificateID == second.CertificateID {
		t.Error("Expected distinct certificate ids")
	}
	if store.CertificateCount() != 2 {
		t.Errorf("Expected 2 certificates, got %d", store.CertificateCount())
	}

	item, _ := store.GetJewelryItem(ctx, "item-1")
	if !item.IsCertified {
		t.Error("Expected item to stay certified")
	}
}
