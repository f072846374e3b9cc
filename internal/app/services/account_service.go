package services

import (
	"context"
	"strings"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/repositories"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/identity"
	"github.com/rs/zerolog"
)

// AccountPolicy decides who becomes an admin at signup or redemption
type AccountPolicy struct {
	AdminCode   string
	AdminEmails []string
}

func (p AccountPolicy) isAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range p.AdminEmails {
		if strings.ToLower(strings.TrimSpace(e)) == email {
			return true
		}
	}
	return false
}

func (p AccountPolicy) isAdminCode(code string) bool {
	return p.AdminCode != "" && code == p.AdminCode
}

// AccountService handles signup, sign-in and code redemption
type AccountService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*models.Profile, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*identity.Session, *models.Profile, error)
	CurrentUser(ctx context.Context, actor *models.Actor) (*models.Profile, error)
	VerifyCode(ctx context.Context, actor *models.Actor, code string) (*models.Profile, error)
}

type accountServiceImpl struct {
	repos    *repositories.Repositories
	provider identity.Provider
	policy   AccountPolicy
	clock    Clock
	logger   zerolog.Logger
}

// NewAccountService creates a new account service instance
func NewAccountService(
	repos *repositories.Repositories,
	provider identity.Provider,
	policy AccountPolicy,
	clock Clock,
	logger zerolog.Logger,
) AccountService {
	return &accountServiceImpl{
		repos:    repos,
		provider: provider,
		policy:   policy,
		clock:    clock,
		logger:   logger,
	}
}

func (s *accountServiceImpl) isVerificationCode(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	codes, err := s.repos.SettingsRepository.VerificationCodes(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range codes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}

// Signup creates the provider account and the local profile. A valid
// verification code marks the profile verified; the admin code or a
// configured admin email grants admin.
func (s *accountServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*models.Profile, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	code := strings.TrimSpace(req.VerificationCode)

	verified, err := s.isVerificationCode(ctx, code)
	if err != nil {
		return nil, err
	}

	ident, err := s.provider.CreateUser(ctx, email, req.Password, name)
	if err != nil {
		if isClientError(err) || apperrors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", email).Msg("Provider refused signup")
		return nil, apperrors.NewUpstreamError("Signup failed", err)
	}

	created := s.clock.now()
	profile := &models.Profile{
		ID:        ident.ID,
		Email:     ident.Email,
		Name:      name,
		Verified:  verified,
		Admin:     s.policy.isAdminEmail(email) || s.policy.isAdminCode(code),
		CreatedAt: &created,
	}

	err = s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		if err := tx.ProfileRepository.Save(ctx, profile); err != nil {
			return err
		}
		if !verified {
			return nil
		}
		return tx.AnalyticsRepository.Update(ctx, func(a *models.Analytics) { a.VerifiedUsers++ })
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", ident.ID).Msg("Error saving profile, rolling back provider account")
		if delErr := s.provider.DeleteUser(ctx, ident.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("user_id", ident.ID).Msg("Error rolling back provider account")
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", profile.ID).Bool("verified", profile.Verified).Bool("admin", profile.Admin).Msg("User signed up")
	return profile, nil
}

// Login signs in through the provider and returns the session with the
// caller's profile
func (s *accountServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*identity.Session, *models.Profile, error) {
	session, err := s.provider.SignIn(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, nil, err
	}

	profile, _, err := s.repos.ProfileRepository.GetByID(ctx, session.User.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, mergeProfile(session.User.ID, session.User.Email, profile), nil
}

// CurrentUser returns the caller's profile with identity defaults filled in
func (s *accountServiceImpl) CurrentUser(ctx context.Context, actor *models.Actor) (*models.Profile, error) {
	profile, _, err := s.repos.ProfileRepository.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return mergeProfile(actor.ID, actor.Email, profile), nil
}

// VerifyCode redeems a code for the caller. A verification code sets the
// verified flag, the admin code sets admin; redeeming a code that changes
// nothing is an error.
func (s *accountServiceImpl) VerifyCode(ctx context.Context, actor *models.Actor, code string) (*models.Profile, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewBadRequestError("No code provided")
	}

	var result *models.Profile
	err := s.repos.Tx(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		stored, _, err := tx.ProfileRepository.GetByID(ctx, actor.ID)
		if err != nil {
			return err
		}
		profile := &models.Profile{ID: actor.ID, Email: actor.Email}
		if stored != nil {
			*profile = *stored
			profile.ID = actor.ID
		}

		isVerification, err := s.isVerificationCode(ctx, code)
		if err != nil {
			return err
		}

		changed := false
		if isVerification && !profile.Verified {
			profile.Verified = true
			changed = true
			if err := tx.AnalyticsRepository.Update(ctx, func(a *models.Analytics) { a.VerifiedUsers++ }); err != nil {
				return err
			}
		}
		if s.policy.isAdminCode(code) && !profile.Admin {
			profile.Admin = true
			changed = true
		}
		if !changed {
			return apperrors.NewBadRequestError("Invalid code or no change")
		}

		if err := tx.ProfileRepository.Save(ctx, profile); err != nil {
			return err
		}
		result = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", actor.ID).Bool("verified", result.Verified).Bool("admin", result.Admin).Msg("Code redeemed")
	return mergeProfile(actor.ID, actor.Email, result), nil
}

// mergeProfile joins identity fields with a possibly missing profile
func mergeProfile(id, email string, stored *models.Profile) *models.Profile {
	p := &models.Profile{ID: id, Email: email}
	if stored != nil {
		*p = *stored
		p.ID = id
		if p.Email == "" {
			p.Email = email
		}
	}
	p.Name = p.DisplayName()
	return p
}
