package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/veralix/certgen/config"
	"github.com/veralix/certgen/pkg/logger"
)

// Fallback reasons surfaced to the dual-chain coordinator. Any other error
// from Mint means the submission itself failed.
var (
	ErrNoPrivateKey      = errors.New("no operator private key configured")
	ErrInsufficientFunds = errors.New("operator wallet below minimum gas balance")
)

// minGasBalanceWei is the admission gate before a real mint: 0.001 native
// token. The check races under concurrent issuance, which is tolerable
// because a depleted wallet only degrades to the fallback path.
var minGasBalanceWei = big.NewInt(1_000_000_000_000_000)

const mintGasLimit = 500_000

// registryABI covers the two pieces of the master registry contract the
// minter touches: the createCertificate call and its emitted event.
const registryABI = `[
  {"type":"function","name":"createCertificate","stateMutability":"nonpayable",
   "inputs":[
     {"name":"certificateNumber","type":"string"},
     {"name":"jewelryType","type":"string"},
     {"name":"description","type":"string"},
     {"name":"imageHash","type":"string"},
     {"name":"metadataURI","type":"string"},
     {"name":"owner","type":"address"},
     {"name":"appraisalValue","type":"uint256"},
     {"name":"appraisalCurrency","type":"string"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"CertificateCreated","anonymous":false,
   "inputs":[
     {"name":"tokenId","type":"uint256","indexed":true},
     {"name":"certificateNumber","type":"string","indexed":false},
     {"name":"owner","type":"address","indexed":true}]}
]`

// evmBackend is the slice of the RPC client the minter uses.
// *ethclient.Client satisfies it.
type evmBackend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// EVMMintParams carries what the registry contract needs for one certificate.
type EVMMintParams struct {
	CertificateID  string
	JewelryType    string
	Description    string
	MetadataURI    string
	OwnerAddress   string // optional; defaults to the operator wallet
	AppraisalValue float64
	Currency       string
}

// EVMMintResult is a confirmed on-chain mint.
type EVMMintResult struct {
	TxHash        string
	TokenID       string
	BlockNumber   string
	WalletAddress string
}

// EVMService mints certificates on the configured EVM network.
type EVMService struct {
	config       *config.EVMConfig
	registry     abi.ABI
	dial         func(ctx context.Context, rawURL string) (evmBackend, error)
	pollInterval time.Duration
}

func NewEVMService(cfg *config.EVMConfig) (*EVMService, error) {
	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry ABI: %w", err)
	}

	return &EVMService{
		config:   cfg,
		registry: parsed,
		dial: func(ctx context.Context, rawURL string) (evmBackend, error) {
			client, err := ethclient.DialContext(ctx, rawURL)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		pollInterval: 3 * time.Second,
	}, nil
}

// Mint submits a createCertificate transaction and waits for one
// confirmation. It returns ErrNoPrivateKey or ErrInsufficientFunds when the
// operator wallet cannot attempt a real mint; the coordinator converts any
// error into a locally derived fallback result.
func (s *EVMService) Mint(ctx context.Context, p *EVMMintParams) (*EVMMintResult, error) {
	if s.config.PrivateKey == "" {
		return nil, ErrNoPrivateKey
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(s.config.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid operator private key: %w", err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	backend, rpcURL, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "connected to EVM RPC", "rpc_url", rpcURL, "wallet", from.Hex())

	balance, err := backend.BalanceAt(ctx, from, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet balance: %w", err)
	}
	if balance.Cmp(minGasBalanceWei) <= 0 {
		return nil, ErrInsufficientFunds
	}

	owner := from
	if p.OwnerAddress != "" && common.IsHexAddress(p.OwnerAddress) {
		owner = common.HexToAddress(p.OwnerAddress)
	}
	// Appraisal value is stored in cents on-chain
	appraisal := big.NewInt(int64(math.Floor(p.AppraisalValue * 100)))

	input, err := s.registry.Pack("createCertificate",
		p.CertificateID,
		p.JewelryType,
		p.Description,
		"", // image hash is attached to the metadata, not the token
		p.MetadataURI,
		owner,
		appraisal,
		p.Currency,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to pack createCertificate call: %w", err)
	}

	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gas price: %w", err)
	}

	contract := common.HexToAddress(s.config.ContractAddress)
	tx := types.NewTransaction(nonce, contract, big.NewInt(0), mintGasLimit, gasPrice, input)

	chainID := big.NewInt(s.config.ChainID)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	logger.Info(ctx, "mint transaction sent", "tx_hash", signed.Hash().Hex())

	receipt, err := s.waitMined(ctx, backend, signed.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("mint transaction reverted: %s", signed.Hash().Hex())
	}

	return &EVMMintResult{
		TxHash:        signed.Hash().Hex(),
		TokenID:       s.tokenIDFromLogs(receipt, p.CertificateID),
		BlockNumber:   receipt.BlockNumber.String(),
		WalletAddress: from.Hex(),
	}, nil
}

// ExplorerTxURL links a transaction hash to the network explorer.
func (s *EVMService) ExplorerTxURL(txHash string) string {
	return fmt.Sprintf("%s/tx/%s", s.config.ExplorerURL, txHash)
}

// ContractAddress returns the configured registry contract address.
func (s *EVMService) ContractAddress() string {
	return s.config.ContractAddress
}

// connect tries each configured RPC URL until one answers a block number
// query.
func (s *EVMService) connect(ctx context.Context) (evmBackend, string, error) {
	var lastErr error
	for _, rawURL := range s.config.RPCURLs {
		backend, err := s.dial(ctx, rawURL)
		if err != nil {
			lastErr = err
			continue
		}
		if _, err := backend.BlockNumber(ctx); err != nil {
			lastErr = err
			continue
		}
		return backend, rawURL, nil
	}
	return nil, "", fmt.Errorf("no EVM RPC endpoint reachable: %w", lastErr)
}

// waitMined polls for the transaction receipt until one confirmation exists.
func (s *EVMService) waitMined(ctx context.Context, backend evmBackend, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gave up waiting for receipt %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// tokenIDFromLogs pulls the token id out of the CertificateCreated event,
// falling back to the certificate id when the event is absent.
func (s *EVMService) tokenIDFromLogs(receipt *types.Receipt, certificateID string) string {
	topic := s.registry.Events["CertificateCreated"].ID
	for _, l := range receipt.Logs {
		if len(l.Topics) > 1 && l.Topics[0] == topic {
			return new(big.Int).SetBytes(l.Topics[1].Bytes()).String()
		}
	}
	return certificateID
}
