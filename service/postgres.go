package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veralix/certgen/config"
	"github.com/veralix/certgen/model"
)

// PostgresStore implements Datastore on a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, cfg *config.DatabaseConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) GetJewelryItem(ctx context.Context, id string) (*model.JewelryItem, error) {
	const query = `
		SELECT id, user_id, name, type, COALESCE(materials, '{}'),
		       COALESCE(weight, 0), COALESCE(origin, ''), COALESCE(craftsman, ''),
		       COALESCE(description, ''), COALESCE(sale_price, 0), COALESCE(currency, ''),
		       COALESCE(main_image_url, ''), COALESCE(image_urls, '{}'),
		       status, is_certified, created_at, updated_at
		FROM jewelry_items
		WHERE id = $1`

	var item model.JewelryItem
	err := s.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.UserID, &item.Name, &item.Type, &item.Materials,
		&item.Weight, &item.Origin, &item.Craftsman,
		&item.Description, &item.SalePrice, &item.Currency,
		&item.MainImageURL, &item.ImageURLs,
		&item.Status, &item.IsCertified, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to query jewelry item: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) InsertCertificate(ctx context.Context, rec *model.CertificateRecord) error {
	const query = `
		INSERT INTO nft_certificates (
			id, certificate_id, jewelry_item_id, user_id, owner_id,
			transaction_hash, token_id, contract_address, block_number,
			metadata_uri, certificate_html_uri, qr_code_url, social_image_url,
			verification_url, certificate_view_url, blockchain_verification_url,
			is_verified, dual_verification, blockchain_network, verification_date,
			orilux_tx_hash, orilux_token_id, orilux_block_number,
			orilux_verification_url, orilux_blockchain_status,
			evm_tx_hash, evm_token_id, evm_block_number,
			evm_contract_address, evm_verification_url, evm_network,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31, now()
		)`

	_, err := s.db.Exec(ctx, query,
		rec.ID, rec.CertificateID, rec.JewelryItemID, rec.UserID, rec.OwnerID,
		rec.TransactionHash, rec.TokenID, rec.ContractAddress, rec.BlockNumber,
		rec.MetadataURI, rec.CertificateHTMLURI, rec.QRCodeURL, rec.SocialImageURL,
		rec.VerificationURL, rec.CertificateViewURL, rec.BlockchainVerificationURL,
		rec.IsVerified, rec.DualVerification, rec.BlockchainNetwork, rec.VerificationDate,
		rec.OriluxTxHash, rec.OriluxTokenID, rec.OriluxBlockNumber,
		rec.OriluxVerificationURL, rec.OriluxStatus,
		rec.EVMTxHash, rec.EVMTokenID, rec.EVMBlockNumber,
		rec.EVMContractAddress, rec.EVMVerificationURL, rec.EVMNetwork,
	)
	if err != nil {
		return fmt.Errorf("failed to insert certificate: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCertificate(ctx context.Context, certificateID string) (*model.CertificateRecord, error) {
	const query = `
		SELECT id, certificate_id, jewelry_item_id, user_id, owner_id,
		       transaction_hash, token_id, contract_address, block_number,
		       metadata_uri, certificate_html_uri, qr_code_url, COALESCE(social_image_url, ''),
		       verification_url, certificate_view_url, blockchain_verification_url,
		       is_verified, dual_verification, blockchain_network, verification_date,
		       orilux_tx_hash, orilux_token_id, orilux_block_number,
		       orilux_verification_url, orilux_blockchain_status,
		       evm_tx_hash, evm_token_id, evm_block_number,
		       evm_contract_address, evm_verification_url, evm_network,
		       created_at
		FROM nft_certificates
		WHERE certificate_id = $1`

	var rec model.CertificateRecord
	err := s.db.QueryRow(ctx, query, certificateID).Scan(
		&rec.ID, &rec.CertificateID, &rec.JewelryItemID, &rec.UserID, &rec.OwnerID,
		&rec.TransactionHash, &rec.TokenID, &rec.ContractAddress, &rec.BlockNumber,
		&rec.MetadataURI, &rec.CertificateHTMLURI, &rec.QRCodeURL, &rec.SocialImageURL,
		&rec.VerificationURL, &rec.CertificateViewURL, &rec.BlockchainVerificationURL,
		&rec.IsVerified, &rec.DualVerification, &rec.BlockchainNetwork, &rec.VerificationDate,
		&rec.OriluxTxHash, &rec.OriluxTokenID, &rec.OriluxBlockNumber,
		&rec.OriluxVerificationURL, &rec.OriluxStatus,
		&rec.EVMTxHash, &rec.EVMTokenID, &rec.EVMBlockNumber,
		&rec.EVMContractAddress, &rec.EVMVerificationURL, &rec.EVMNetwork,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to query certificate: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) CacheCertificateHTML(ctx context.Context, entry *model.CertificateCacheEntry) error {
	const query = `
		INSERT INTO certificate_cache (certificate_id, html_content, ipfs_hash, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (certificate_id) DO UPDATE
		SET html_content = EXCLUDED.html_content, ipfs_hash = EXCLUDED.ipfs_hash`

	_, err := s.db.Exec(ctx, query, entry.CertificateID, entry.HTMLContent, entry.IPFSHash)
	if err != nil {
		return fmt.Errorf("failed to cache certificate html: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkItemCertified(ctx context.Context, itemID string, cert *model.ItemCertification) error {
	const query = `
		UPDATE jewelry_items
		SET status = $2, is_certified = true,
		    orilux_certificate_id = $3, orilux_tx_hash = $4, orilux_verification_url = $5,
		    evm_certificate_id = $3, evm_tx_hash = $6, evm_verification_url = $7,
		    updated_at = now()
		WHERE id = $1`

	_, err := s.db.Exec(ctx, query, itemID, model.ItemStatusCertified,
		cert.CertificateID, cert.OriluxTxHash, cert.OriluxVerificationURL,
		cert.EVMTxHash, cert.EVMVerificationURL,
	)
	if err != nil {
		return fmt.Errorf("failed to mark item certified: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	const query = `
		INSERT INTO audit_logs (action, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, now())`

	_, err := s.db.Exec(ctx, query, entry.Action, entry.ResourceType, entry.ResourceID, entry.Details)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
