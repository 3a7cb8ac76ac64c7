package model

import "time"

// ChainResult is the outcome of one chain's mint attempt. Every field is
// always populated: when the chain is unreachable the hash is derived
// locally, so downstream consumers never see a missing value.
type ChainResult struct {
	Success         bool   `json:"success"`
	Confirmed       bool   `json:"confirmed"` // true only for values the chain itself returned
	TxHash          string `json:"txHash"`
	TokenID         string `json:"tokenId"`
	BlockNumber     string `json:"blockNumber"`
	VerificationURL string `json:"verificationUrl"`
	ContractAddress string `json:"contractAddress,omitempty"`
	WalletAddress   string `json:"walletAddress,omitempty"`
}

// CertificateRecord is the persisted certificate. Append-only: records are
// created once at issuance and never deleted.
type CertificateRecord struct {
	ID            string `json:"id"`
	CertificateID string `json:"certificate_id"`
	JewelryItemID string `json:"jewelry_item_id"`
	UserID        string `json:"user_id"`
	OwnerID       string `json:"owner_id"`

	// Primary hash/token mirror the Orilux result when available, else EVM.
	TransactionHash string `json:"transaction_hash"`
	TokenID         string `json:"token_id"`
	ContractAddress string `json:"contract_address"`
	BlockNumber     *int64 `json:"block_number"`

	MetadataURI        string `json:"metadata_uri"`
	CertificateHTMLURI string `json:"certificate_html_uri"`
	QRCodeURL          string `json:"qr_code_url"`
	SocialImageURL     string `json:"social_image_url,omitempty"`

	VerificationURL           string `json:"verification_url"`
	CertificateViewURL        string `json:"certificate_view_url"`
	BlockchainVerificationURL string `json:"blockchain_verification_url"`

	IsVerified        bool      `json:"is_verified"`
	DualVerification  bool      `json:"dual_verification"`
	BlockchainNetwork string    `json:"blockchain_network"`
	VerificationDate  time.Time `json:"verification_date"`

	// Per-chain detail, denormalized for lookups
	OriluxTxHash          string `json:"orilux_tx_hash"`
	OriluxTokenID         string `json:"orilux_token_id"`
	OriluxBlockNumber     *int64 `json:"orilux_block_number"`
	OriluxVerificationURL string `json:"orilux_verification_url"`
	OriluxStatus          string `json:"orilux_blockchain_status"` // verified, pending

	EVMTxHash          string `json:"evm_tx_hash"`
	EVMTokenID         string `json:"evm_token_id"`
	EVMBlockNumber     *int64 `json:"evm_block_number"`
	EVMContractAddress string `json:"evm_contract_address"`
	EVMVerificationURL string `json:"evm_verification_url"`
	EVMNetwork         string `json:"evm_network"` // BSC_MAINNET or BSC_PENDING

	CreatedAt time.Time `json:"created_at"`
}

// CertificateCacheEntry holds the rendered HTML exactly as pinned, so that
// serving a certificate does not require an IPFS round trip. The content
// must stay byte-identical to the pinned document.
type CertificateCacheEntry struct {
	CertificateID string    `json:"certificate_id"`
	HTMLContent   string    `json:"html_content"`
	IPFSHash      string    `json:"ipfs_hash"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditEntry records an administrative action.
type AuditEntry struct {
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Details      map[string]any `json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
}
