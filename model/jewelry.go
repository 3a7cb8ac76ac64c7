package model

import "time"

// JewelryItem is the source item a certificate is issued for.
type JewelryItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Materials    []string  `json:"materials"`
	Weight       float64   `json:"weight"`
	Origin       string    `json:"origin"`
	Craftsman    string    `json:"craftsman"`
	Description  string    `json:"description"`
	SalePrice    float64   `json:"sale_price"`
	Currency     string    `json:"currency"`
	MainImageURL string    `json:"main_image_url"`
	ImageURLs    []string  `json:"image_urls"`
	Status       string    `json:"status"` // pending, certified
	IsCertified  bool      `json:"is_certified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JewelryItem status constants
const (
	ItemStatusPending   = "pending"
	ItemStatusCertified = "certified"
)

// ItemCertification carries the denormalized chain pointers written back to
// the jewelry item once a certificate exists. The transition to certified is
// idempotent: issuing twice simply overwrites the pointers.
type ItemCertification struct {
	CertificateID         string
	OriluxTxHash          string
	OriluxVerificationURL string
	EVMTxHash             string
	EVMVerificationURL    string
}
