// Package profile handles the signup and profile-edit flows: fetching the
// signed-in user and validating profile updates before they reach the
// backend.
package profile

import (
	"context"
	"errors"
	"regexp"

	"github.com/joooonis/incourserun-checkout/internal/pkg/krformat"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/ports"
)

// Nickname display-byte limits (Hangul counts 2).
const (
	MinNicknameBytes = 2
	MaxNicknameBytes = 10
)

var emailRE = regexp.MustCompile("^[a-zA-Z0-9.!#$%&’*+/=?^_`{|}~-]+@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*$")

var (
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidNickname = errors.New("invalid nickname length")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrTermsNotAgreed  = errors.New("required terms not agreed")
)

type Service struct {
	backend ports.BackendClient
}

func NewService(backend ports.BackendClient) *Service {
	return &Service{backend: backend}
}

// Me returns the signed-in user's profile.
func (s *Service) Me(ctx context.Context) (*entity.User, error) {
	return s.backend.Me(ctx)
}

// Update validates and applies a profile update. Checking agree-all implies
// every individual term; registration additionally requires the required and
// private-info terms.
func (s *Service) Update(ctx context.Context, update *entity.ProfileUpdate) (*entity.User, error) {
	if update.Name == "" {
		return nil, ErrNameRequired
	}
	if !krformat.WithinByteLength(update.Nickname, MinNicknameBytes, MaxNicknameBytes) {
		return nil, ErrInvalidNickname
	}
	if !krformat.ValidPhone(update.Phone) {
		return nil, ErrInvalidPhone
	}
	if !emailRE.MatchString(update.Email) {
		return nil, ErrInvalidEmail
	}

	if update.AgreeAllTerms {
		update.RequiredTerms = true
		update.PrivateInfoTerms = true
		update.MarketingTerms = true
	} else if !update.RequiredTerms || !update.PrivateInfoTerms || !update.MarketingTerms {
		// Any individual term left unchecked clears agree-all.
		update.AgreeAllTerms = false
	}

	if update.IsRegister && !(update.RequiredTerms && update.PrivateInfoTerms) {
		return nil, ErrTermsNotAgreed
	}

	return s.backend.UpdateMe(ctx, update)
}
