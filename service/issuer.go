package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/veralix/certgen/config"
	"github.com/veralix/certgen/model"
	"github.com/veralix/certgen/pkg/logger"
)

const certificateIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// IssueRequest is the orchestrator input for one certificate issuance.
type IssueRequest struct {
	JewelryItemID       string `json:"jewelryItemId" binding:"required"`
	UserID              string `json:"userId"`
	OwnerAddress        string `json:"ownerAddress"`
	CertificatePassword string `json:"certificatePassword"`
}

// IssueResult is the success payload for one issuance. The per-chain blocks
// are always populated, fallback or not.
type IssueResult struct {
	ID            string `json:"id"`
	CertificateID string `json:"certificateId"`
	JewelryItemID string `json:"jewelryItemId"`

	TransactionHash string `json:"transactionHash"`
	TokenID         string `json:"tokenId"`
	ContractAddress string `json:"contractAddress"`
	BlockNumber     *int64 `json:"blockNumber"`

	MetadataURI        string `json:"metadataUri"`
	CertificateHTMLURI string `json:"certificateHtmlUri"`
	QRCodeURL          string `json:"qrCodeUrl"`
	SocialImageURL     string `json:"socialImageUrl,omitempty"`

	VerificationURL           string `json:"verificationUrl"`
	CertificateViewURL        string `json:"certificateViewUrl"`
	BlockchainVerificationURL string `json:"blockchainVerificationUrl"`

	DualVerification bool `json:"dualVerification"`

	Oriluxchain model.ChainResult `json:"oriluxchain"`
	BSCMainnet  model.ChainResult `json:"bscMainnet"`
}

// Issuer runs the full issuance pipeline: load item, mint on both chains,
// pin assets, render and pin the certificate document, persist the record.
type Issuer struct {
	store    Datastore
	pinata   *PinataService
	resolver *ImageResolver
	minter   *Minter
	renderer *Renderer
	social   *SocialImageService
	public   *config.PublicConfig
	now      func() time.Time
}

func NewIssuer(store Datastore, pinata *PinataService, resolver *ImageResolver, minter *Minter, renderer *Renderer, social *SocialImageService, public *config.PublicConfig) *Issuer {
	return &Issuer{
		store:    store,
		pinata:   pinata,
		resolver: resolver,
		minter:   minter,
		renderer: renderer,
		social:   social,
		public:   public,
		now:      time.Now,
	}
}

// GenerateCertificateID returns a fresh VRX-YYYYMMDD-XXXXXX identifier. The
// random part is six characters from [A-Z0-9]; uniqueness is probabilistic,
// not enforced, so duplicate items simply get distinct certificates.
func (i *Issuer) GenerateCertificateID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand on a supported platform does not fail in practice
		panic(fmt.Sprintf("issuer: rand.Read: %v", err))
	}
	for n, b := range buf {
		buf[n] = certificateIDCharset[int(b)%len(certificateIDCharset)]
	}
	return fmt.Sprintf("VRX-%s-%s", i.now().UTC().Format("20060102"), string(buf))
}

// Issue runs the pipeline for one jewelry item. Only three failures abort the
// issuance: the item not existing, the certificate document pin exhausting
// its retries, and the datastore insert failing. Everything else degrades and
// is recorded in rec.
func (i *Issuer) Issue(ctx context.Context, rec *logger.Recorder, req *IssueRequest) (*IssueResult, error) {
	rec.Info("issuance started", "jewelry_item_id", req.JewelryItemID)

	item, err := i.store.GetJewelryItem(ctx, req.JewelryItemID)
	if err != nil {
		return nil, fmt.Errorf("load jewelry item %s: %w", req.JewelryItemID, err)
	}

	certificateID := i.GenerateCertificateID()
	ctx = context.WithValue(ctx, logger.CertificateIDKey, certificateID)
	rec.Info("certificate id generated", "certificate_id", certificateID)

	oriluxRes, evmRes := i.minter.MintDual(ctx, rec, item, certificateID, req.OwnerAddress)

	verificationURL := i.public.BaseURL + "/verify/" + certificateID

	imageURI := i.pinJewelryImage(ctx, rec, item, certificateID)

	metadata := i.buildMetadata(item, certificateID, imageURI, verificationURL, oriluxRes, evmRes)
	metadataURI, err := i.pinata.PinJSON(ctx, metadata, certificateID+"-metadata.json")
	if err != nil {
		rec.Warn("metadata pin failed, using placeholder", "error", err.Error())
		metadataURI = "ipfs://veralix/" + certificateID
	} else {
		rec.Info("metadata pinned", "uri", metadataURI)
	}

	htmlBytes, htmlText, err := i.renderer.Render(ctx, item, certificateID, verificationURL, oriluxRes, evmRes, req.CertificatePassword)
	if err != nil {
		return nil, fmt.Errorf("render certificate %s: %w", certificateID, err)
	}
	htmlURI, err := i.pinata.PinFile(ctx, htmlBytes, certificateID+".html", "certificate-html")
	if err != nil {
		return nil, fmt.Errorf("pin certificate document %s: %w", certificateID, err)
	}
	rec.Info("certificate document pinned", "uri", htmlURI)

	qrCodeURL, err := QRDataURI(verificationURL)
	if err != nil {
		return nil, fmt.Errorf("encode verification qr: %w", err)
	}

	socialImageURL := i.social.Generate(ctx, item.Name, certificateID)

	record := i.buildRecord(item, req, certificateID, metadataURI, htmlURI, qrCodeURL, socialImageURL, verificationURL, oriluxRes, evmRes)
	if err := i.store.InsertCertificate(ctx, record); err != nil {
		return nil, fmt.Errorf("persist certificate %s: %w", certificateID, err)
	}
	rec.Info("certificate persisted", "id", record.ID)

	if err := i.store.CacheCertificateHTML(ctx, &model.CertificateCacheEntry{
		CertificateID: certificateID,
		HTMLContent:   htmlText,
		IPFSHash:      StripIPFSScheme(htmlURI),
		CreatedAt:     i.now().UTC(),
	}); err != nil {
		rec.Warn("certificate cache write failed", "error", err.Error())
	}

	if err := i.store.MarkItemCertified(ctx, item.ID, &model.ItemCertification{
		CertificateID:         certificateID,
		OriluxTxHash:          oriluxRes.TxHash,
		OriluxVerificationURL: oriluxRes.VerificationURL,
		EVMTxHash:             evmRes.TxHash,
		EVMVerificationURL:    evmRes.VerificationURL,
	}); err != nil {
		rec.Warn("item status update failed", "error", err.Error())
	}

	if err := i.store.InsertAuditEntry(ctx, &model.AuditEntry{
		Action:       "certificate_generated",
		ResourceType: "nft_certificate",
		ResourceID:   certificateID,
		Details: map[string]any{
			"jewelry_item_id":   item.ID,
			"dual_verification": record.DualVerification,
			"orilux_success":    oriluxRes.Success,
			"evm_success":       evmRes.Success,
		},
		CreatedAt: i.now().UTC(),
	}); err != nil {
		rec.Warn("audit log write failed", "error", err.Error())
	}

	rec.Info("issuance finished", "certificate_id", certificateID, "dual_verification", record.DualVerification)

	return &IssueResult{
		ID:                        record.ID,
		CertificateID:             certificateID,
		JewelryItemID:             item.ID,
		TransactionHash:           record.TransactionHash,
		TokenID:                   record.TokenID,
		ContractAddress:           record.ContractAddress,
		BlockNumber:               record.BlockNumber,
		MetadataURI:               metadataURI,
		CertificateHTMLURI:        htmlURI,
		QRCodeURL:                 qrCodeURL,
		SocialImageURL:            socialImageURL,
		VerificationURL:           verificationURL,
		CertificateViewURL:        GatewayURL(htmlURI),
		BlockchainVerificationURL: oriluxRes.VerificationURL,
		DualVerification:          record.DualVerification,
		Oriluxchain:               oriluxRes,
		BSCMainnet:                evmRes,
	}, nil
}

// pinJewelryImage uploads the item's resolved image. A missing image or a
// failed pin is not fatal: the metadata falls back to no image.
func (i *Issuer) pinJewelryImage(ctx context.Context, rec *logger.Recorder, item *model.JewelryItem, certificateID string) string {
	data := i.resolver.Resolve(ctx, item)
	if data == nil {
		rec.Warn("no jewelry image resolved", "jewelry_item_id", item.ID)
		return ""
	}
	uri, err := i.pinata.PinFile(ctx, data, certificateID+"-jewelry.jpg", "jewelry-image")
	if err != nil {
		rec.Warn("jewelry image pin failed", "error", err.Error())
		return ""
	}
	rec.Info("jewelry image pinned", "uri", uri, "bytes", len(data))
	return uri
}

func (i *Issuer) buildMetadata(item *model.JewelryItem, certificateID, imageURI, verificationURL string, oriluxRes, evmRes model.ChainResult) map[string]any {
	attributes := []map[string]any{
		{"trait_type": "Jewelry Type", "value": defaultString(item.Type, "Jewelry")},
		{"trait_type": "Materials", "value": firstMaterial(item.Materials)},
		{"trait_type": "Weight", "value": fmt.Sprintf("%gg", item.Weight)},
		{"trait_type": "Origin", "value": defaultString(item.Origin, "Colombia")},
		{"trait_type": "Craftsman", "value": defaultString(item.Craftsman, "Veralix")},
		{"trait_type": "Certificate ID", "value": certificateID},
		{"trait_type": "Blockchain", "value": i.public.BlockchainName},
		{"trait_type": "Dual Verification", "value": strconv.FormatBool(oriluxRes.Success && evmRes.Success)},
	}
	return map[string]any{
		"name":         "Veralix Certificate - " + item.Name,
		"description":  SanitizeDescription(item.Description),
		"image":        defaultString(imageURI, "ipfs://veralix/"+certificateID),
		"external_url": verificationURL,
		"attributes":   attributes,
		"properties": map[string]any{
			"certificate_id": certificateID,
			"platform":       "Veralix",
			"dualBlockchain": map[string]any{
				"oriluxchain": map[string]any{
					"txHash":          oriluxRes.TxHash,
					"verificationUrl": oriluxRes.VerificationURL,
				},
				"bscMainnet": map[string]any{
					"txHash":          evmRes.TxHash,
					"verificationUrl": evmRes.VerificationURL,
				},
			},
		},
	}
}

func (i *Issuer) buildRecord(item *model.JewelryItem, req *IssueRequest, certificateID, metadataURI, htmlURI, qrCodeURL, socialImageURL, verificationURL string, oriluxRes, evmRes model.ChainResult) *model.CertificateRecord {
	primaryHash := oriluxRes.TxHash
	primaryToken := oriluxRes.TokenID
	if primaryHash == "" {
		primaryHash = evmRes.TxHash
		primaryToken = evmRes.TokenID
	}

	blockNumber := parseBlockNumber(oriluxRes.BlockNumber)
	if blockNumber == nil {
		blockNumber = parseBlockNumber(evmRes.BlockNumber)
	}

	evmNetwork := "BSC_PENDING"
	if evmRes.Success {
		evmNetwork = "BSC_MAINNET"
	}
	oriluxStatus := "pending"
	if oriluxRes.Confirmed {
		oriluxStatus = "verified"
	}

	now := i.now().UTC()
	return &model.CertificateRecord{
		ID:            uuid.New().String(),
		CertificateID: certificateID,
		JewelryItemID: item.ID,
		UserID:        defaultString(req.UserID, item.UserID),
		OwnerID:       defaultString(req.OwnerAddress, item.UserID),

		TransactionHash: primaryHash,
		TokenID:         primaryToken,
		ContractAddress: evmRes.ContractAddress,
		BlockNumber:     blockNumber,

		MetadataURI:        metadataURI,
		CertificateHTMLURI: htmlURI,
		QRCodeURL:          qrCodeURL,
		SocialImageURL:     socialImageURL,

		VerificationURL:           verificationURL,
		CertificateViewURL:        GatewayURL(htmlURI),
		BlockchainVerificationURL: oriluxRes.VerificationURL,

		IsVerified:        oriluxRes.Success || evmRes.Success,
		DualVerification:  oriluxRes.Success && evmRes.Success,
		BlockchainNetwork: i.public.BlockchainName,
		VerificationDate:  now,

		OriluxTxHash:          oriluxRes.TxHash,
		OriluxTokenID:         oriluxRes.TokenID,
		OriluxBlockNumber:     parseBlockNumber(oriluxRes.BlockNumber),
		OriluxVerificationURL: oriluxRes.VerificationURL,
		OriluxStatus:          oriluxStatus,

		EVMTxHash:          evmRes.TxHash,
		EVMTokenID:         evmRes.TokenID,
		EVMBlockNumber:     parseBlockNumber(evmRes.BlockNumber),
		EVMContractAddress: evmRes.ContractAddress,
		EVMVerificationURL: evmRes.VerificationURL,
		EVMNetwork:         evmNetwork,

		CreatedAt: now,
	}
}

// parseBlockNumber converts a chain's block-number string. Labels such as
// "confirmed" or "pending" have no numeric value and map to nil.
func parseBlockNumber(s string) *int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
