package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/veralix/certgen/model"
	"github.com/veralix/certgen/pkg/logger"
)

// Hash prefixes for locally derived transaction hashes, one per chain.
const (
	oriluxHashPrefix = "ORX"
	evmHashPrefix    = "BSC"
)

// FallbackHash derives the deterministic stand-in transaction hash used when
// a chain cannot be reached: sha256 over "<prefix>-<certificateId>-<millis>".
func FallbackHash(prefix, certificateID string, at time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%d", prefix, certificateID, at.UnixMilli())))
	return "0x" + hex.EncodeToString(sum[:])
}

// Minter coordinates the two chain submissions. The chains share no state,
// so both attempts run concurrently and the results are joined before
// anything is persisted. Neither attempt may abort an issuance: every
// failure becomes a fallback result.
type Minter struct {
	orilux *OriluxService
	evm    *EVMService
	now    func() time.Time
}

func NewMinter(orilux *OriluxService, evm *EVMService) *Minter {
	return &Minter{
		orilux: orilux,
		evm:    evm,
		now:    time.Now,
	}
}

// MintDual runs both chain submissions and returns one fully populated
// result per chain.
func (m *Minter) MintDual(ctx context.Context, rec *logger.Recorder, item *model.JewelryItem, certificateID, ownerAddress string) (oriluxRes, evmRes model.ChainResult) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				rec.Error("oriluxchain mint panicked", "panic", r)
				oriluxRes = m.oriluxFallback(certificateID)
			}
		}()
		oriluxRes = m.mintOrilux(ctx, rec, item, certificateID)
	}()

	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				rec.Error("evm mint panicked", "panic", r)
				evmRes = m.evmFallback(certificateID, "error")
			}
		}()
		evmRes = m.mintEVM(ctx, rec, item, certificateID, ownerAddress)
	}()

	wg.Wait()
	return oriluxRes, evmRes
}

func (m *Minter) mintOrilux(ctx context.Context, rec *logger.Recorder, item *model.JewelryItem, certificateID string) model.ChainResult {
	payload := &OriluxCertifyRequest{
		ItemID:         item.ID,
		JewelryType:    item.Type,
		Material:       strings.Join(item.Materials, ", "),
		Purity:         firstMaterial(item.Materials),
		Weight:         item.Weight,
		Stones:         []string{},
		Jeweler:        defaultString(item.Craftsman, "Veralix"),
		Manufacturer:   defaultString(item.Origin, "Colombia"),
		OriginCountry:  "Colombia",
		CreationDate:   m.now().UTC().Format(time.RFC3339),
		Description:    defaultString(item.Description, item.Name),
		Images:         item.ImageURLs,
		EstimatedValue: item.SalePrice,
		Owner:          item.UserID,
		Issuer:         "Veralix.io",
		CertificateID:  certificateID,
	}

	result, err := m.orilux.Certify(ctx, payload)
	if err != nil {
		rec.Warn("oriluxchain certify failed, deriving local hash", "error", err)
		return m.oriluxFallback(certificateID)
	}

	txHash := result.TransactionHash
	if txHash == "" {
		txHash = result.BlockchainTx
	}
	if txHash == "" {
		txHash = oriluxHashPrefix + "-" + certificateID
	}
	tokenID := result.CertificateID
	if tokenID == "" {
		tokenID = certificateID
	}
	blockNumber := "confirmed"
	if result.BlockNumber > 0 {
		blockNumber = strconv.FormatInt(result.BlockNumber, 10)
	}
	verificationURL := result.VerificationURL
	if verificationURL == "" {
		verificationURL = m.orilux.ExplorerCertificateURL(tokenID)
	}

	rec.Info("oriluxchain certificate created", "tx_hash", txHash, "verification_url", verificationURL)
	return model.ChainResult{
		Success:         true,
		Confirmed:       true,
		TxHash:          txHash,
		TokenID:         tokenID,
		BlockNumber:     blockNumber,
		VerificationURL: verificationURL,
	}
}

// oriluxFallback still reports success: a locally derived hash is an
// accepted outcome on this chain, with Confirmed=false marking that the
// value never touched the chain.
func (m *Minter) oriluxFallback(certificateID string) model.ChainResult {
	now := m.now()
	return model.ChainResult{
		Success:         true,
		Confirmed:       false,
		TxHash:          FallbackHash(oriluxHashPrefix, certificateID, now),
		TokenID:         certificateID,
		BlockNumber:     strconv.FormatInt(now.Unix(), 10),
		VerificationURL: m.orilux.ExplorerCertificateURL(certificateID),
	}
}

func (m *Minter) mintEVM(ctx context.Context, rec *logger.Recorder, item *model.JewelryItem, certificateID, ownerAddress string) model.ChainResult {
	result, err := m.evm.Mint(ctx, &EVMMintParams{
		CertificateID: certificateID,
		JewelryType:   defaultString(item.Type, "Jewelry"),
		Description:   defaultString(item.Description, item.Name),
		// Metadata is pinned after minting; the token carries a
		// predictable pointer instead.
		MetadataURI:    "ipfs://veralix/" + certificateID,
		OwnerAddress:   ownerAddress,
		AppraisalValue: item.SalePrice,
		Currency:       defaultString(item.Currency, "COP"),
	})
	if err != nil {
		blockLabel := "error"
		switch {
		case errors.Is(err, ErrNoPrivateKey):
			blockLabel = "pending"
		case errors.Is(err, ErrInsufficientFunds):
			blockLabel = "pending-no-funds"
		}
		rec.Warn("evm mint unavailable, deriving local hash", "error", err, "block_label", blockLabel)
		return m.evmFallback(certificateID, blockLabel)
	}

	rec.Info("evm certificate minted",
		"tx_hash", result.TxHash,
		"token_id", result.TokenID,
		"block_number", result.BlockNumber,
	)
	return model.ChainResult{
		Success:         true,
		Confirmed:       true,
		TxHash:          result.TxHash,
		TokenID:         result.TokenID,
		BlockNumber:     result.BlockNumber,
		VerificationURL: m.evm.ExplorerTxURL(result.TxHash),
		ContractAddress: m.evm.ContractAddress(),
		WalletAddress:   result.WalletAddress,
	}
}

// evmFallback never reports success: unlike Oriluxchain, a locally derived
// hash on this chain is not an accepted substitute for a real mint.
func (m *Minter) evmFallback(certificateID, blockLabel string) model.ChainResult {
	txHash := FallbackHash(evmHashPrefix, certificateID, m.now())
	return model.ChainResult{
		Success:         false,
		Confirmed:       false,
		TxHash:          txHash,
		TokenID:         certificateID,
		BlockNumber:     blockLabel,
		VerificationURL: m.evm.ExplorerTxURL(txHash),
		ContractAddress: m.evm.ContractAddress(),
	}
}

func firstMaterial(materials []string) string {
	if len(materials) > 0 {
		return materials[0]
	}
	return "N/A"
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
