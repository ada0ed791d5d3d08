package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"clubhub/internal/cache"
)

const (
	codeKeyPrefix = "signup_code:"
	// CodeTTL bounds how long an emailed verification code stays redeemable.
	CodeTTL = 5 * time.Minute
)

const bcryptCost = 10

// CodeStoreInterface defines the verification-code storage operations.
type CodeStoreInterface interface {
	StoreCode(ctx context.Context, email, code string) error
	VerifyCode(ctx context.Context, email, code string) (bool, error)
}

// CodeStore keeps email verification codes in Redis, hashed with bcrypt and
// bounded by a TTL. Being external to the process, codes survive restarts and
// are shared across service instances.
type CodeStore struct {
	cache *cache.Client
}

var _ CodeStoreInterface = (*CodeStore)(nil)

// NewCodeStore creates a new verification-code store.
func NewCodeStore(cache *cache.Client) *CodeStore {
	return &CodeStore{cache: cache}
}

// StoreCode hashes the code and stores it keyed by email with CodeTTL.
// A second request for the same email overwrites the previous code.
func (s *CodeStore) StoreCode(ctx context.Context, email, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, codeKeyPrefix+email, hash, CodeTTL)
}

// VerifyCode compares code against the stored hash and consumes it on match.
// A missing or expired entry verifies as false, never as an error.
func (s *CodeStore) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	hash, err := s.cache.Get(ctx, codeKeyPrefix+email)
	if err != nil || hash == nil {
		return false, nil
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(code)) != nil {
		return false, nil
	}
	// single use
	_ = s.cache.Delete(ctx, codeKeyPrefix+email)
	return true, nil
}
