package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/veralix/certgen/model"
)

var (
	// ErrItemNotFound aborts an issuance: there is nothing to certify.
	ErrItemNotFound = errors.New("jewelry item not found")
	// ErrCertificateNotFound is returned by certificate lookups.
	ErrCertificateNotFound = errors.New("certificate not found")
)

// Datastore is the relational persistence consumed by the issuance pipeline.
type Datastore interface {
	GetJewelryItem(ctx context.Context, id string) (*model.JewelryItem, error)
	InsertCertificate(ctx context.Context, rec *model.CertificateRecord) error
	GetCertificate(ctx context.Context, certificateID string) (*model.CertificateRecord, error)
	CacheCertificateHTML(ctx context.Context, entry *model.CertificateCacheEntry) error
	MarkItemCertified(ctx context.Context, itemID string, cert *model.ItemCertification) error
	InsertAuditEntry(ctx context.Context, entry *model.AuditEntry) error
}

// MemoryStore is an in-memory Datastore used by tests and local runs
// without a database.
type MemoryStore struct {
	mu           sync.RWMutex
	items        map[string]*model.JewelryItem
	certificates map[string]*model.CertificateRecord
	cache        map[string]*model.CertificateCacheEntry
	audit        []*model.AuditEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:        make(map[string]*model.JewelryItem),
		certificates: make(map[string]*model.CertificateRecord),
		cache:        make(map[string]*model.CertificateCacheEntry),
	}
}

// SaveJewelryItem seeds an item.
func (s *MemoryStore) SaveJewelryItem(item *model.JewelryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.Status == "" {
		item.Status = model.ItemStatusPending
	}
	item.UpdatedAt = time.Now()
	s.items[item.ID] = item
}

func (s *MemoryStore) GetJewelryItem(_ context.Context, id string) (*model.JewelryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *MemoryStore) InsertCertificate(_ context.Context, rec *model.CertificateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *rec
	s.certificates[rec.CertificateID] = &copied
	return nil
}

func (s *MemoryStore) GetCertificate(_ context.Context, certificateID string) (*model.CertificateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.certificates[certificateID]
	if !ok {
		return nil, ErrCertificateNotFound
	}
	copied := *rec
	return &copied, nil
}

func (s *MemoryStore) CacheCertificateHTML(_ context.Context, entry *model.CertificateCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	copied.CreatedAt = time.Now()
	s.cache[entry.CertificateID] = &copied
	return nil
}

// CachedHTML returns a cached document for assertions.
func (s *MemoryStore) CachedHTML(certificateID string) (*model.CertificateCacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[certificateID]
	return entry, ok
}

func (s *MemoryStore) MarkItemCertified(_ context.Context, itemID string, cert *model.ItemCertification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	item.Status = model.ItemStatusCertified
	item.IsCertified = true
	item.UpdatedAt = time.Now()
	_ = cert // pointers live on the item row in the relational store
	return nil
}

func (s *MemoryStore) InsertAuditEntry(_ context.Context, entry *model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entry
	copied.CreatedAt = time.Now()
	s.audit = append(s.audit, &copied)
	return nil
}

// AuditCount returns how many audit entries were written.
func (s *MemoryStore) AuditCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.audit)
}

// CertificateCount returns how many certificates exist.
func (s *MemoryStore) CertificateCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.certificates)
}
