package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/utils"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
	sharedutils "github.com/ayesh20/e-learn-backend/backend/shared/utils"
	"go.uber.org/zap"
)

const otpLength = 5

// Mailer delivers transactional email.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// SendLimiter counts OTP sends per email.
type SendLimiter interface {
	Allow(ctx context.Context, key string) (bool, int64, error)
}

type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPInput struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// passwordAccount is one of the collections holding login credentials.
type passwordAccount struct {
	exists      func(ctx context.Context, email string) error
	setPassword func(ctx context.Context, email, hash string) (bool, error)
}

func found[T any](get func(context.Context, string) (*T, error)) func(context.Context, string) error {
	return func(ctx context.Context, email string) error {
		_, err := get(ctx, email)
		return err
	}
}

type PasswordService struct {
	resets   repository.PasswordResetRepository
	accounts []passwordAccount
	mailer   Mailer
	limiter  SendLimiter
	otpTTL   time.Duration
	log      *zap.SugaredLogger
	now      func() time.Time
	otp      func() (string, error)
}

func NewPasswordService(resets repository.PasswordResetRepository, students repository.StudentRepository, instructors repository.InstructorRepository, users repository.UserRepository, mailer Mailer, limiter SendLimiter, otpTTL time.Duration, log *zap.SugaredLogger) *PasswordService {
	accounts := []passwordAccount{
		{
			exists:      found(students.GetByEmail),
			setPassword: students.SetPasswordByEmail,
		},
		{
			exists:      found(instructors.GetByEmail),
			setPassword: instructors.SetPasswordByEmail,
		},
		{
			exists:      found(users.GetByEmail),
			setPassword: users.SetPasswordByEmail,
		},
	}
	return &PasswordService{
		resets:   resets,
		accounts: accounts,
		mailer:   mailer,
		limiter:  limiter,
		otpTTL:   otpTTL,
		log:      log,
		now:      sharedutils.NowUTC,
		otp:      func() (string, error) { return utils.GenerateOTP(otpLength) },
	}
}

func (s *PasswordService) accountExists(ctx context.Context, email string) (bool, error) {
	for _, a := range s.accounts {
		err := a.exists(ctx, email)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return false, err
		}
	}
	return false, nil
}

// SendOTP mails a fresh one-time code to a registered email.
func (s *PasswordService) SendOTP(ctx context.Context, in EmailInput) error {
	if err := utils.Validate(in); err != nil {
		return err
	}
	email := utils.NormalizeEmail(in.Email)
	ok, err := s.accountExists(ctx, email)
	if err != nil {
		return storeErr(err, "")
	}
	if !ok {
		return apperr.NotFound("No account found with this email")
	}
	if s.limiter != nil {
		allowed, _, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.log.Warnw("otp limiter unavailable", "error", err)
		} else if !allowed {
			return apperr.New(apperr.ErrRateLimited, "too many OTP requests, please try again later")
		}
	}

	code, err := s.otp()
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	if err := s.resets.Upsert(ctx, email, code, s.now().Add(s.otpTTL)); err != nil {
		return storeErr(err, "")
	}
	if err := s.mailer.SendEmail(ctx, email, "Your password reset code", otpEmail(code, s.otpTTL)); err != nil {
		s.log.Errorw("otp email failed", "email", email, "error", err)
		return apperr.Wrap(apperr.ErrServiceUnavailable, "failed to send OTP email", err)
	}
	s.log.Infow("otp sent", "email", email)
	return nil
}

func otpEmail(code string, ttl time.Duration) string {
	return fmt.Sprintf(`<p>Your password reset code is:</p><h2>%s</h2><p>It expires in %d minutes. If you did not request a reset, ignore this email.</p>`,
		code, int(ttl.Minutes()))
}

func (s *PasswordService) VerifyOTP(ctx context.Context, in VerifyOTPInput) error {
	if err := utils.Validate(in); err != nil {
		return err
	}
	return s.checkOTP(ctx, utils.NormalizeEmail(in.Email), in.OTP)
}

func (s *PasswordService) checkOTP(ctx context.Context, email, otp string) error {
	rec, err := s.resets.Get(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Validation("Invalid OTP")
	}
	if err != nil {
		return storeErr(err, "")
	}
	if subtle.ConstantTimeCompare([]byte(rec.OTP), []byte(otp)) != 1 {
		return apperr.Validation("Invalid OTP")
	}
	if rec.Expired(s.now()) {
		return apperr.Validation("OTP expired")
	}
	return nil
}

// ResetPassword re-checks the code, then updates the first account holding the email.
func (s *PasswordService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := utils.Validate(in); err != nil {
		return err
	}
	email := utils.NormalizeEmail(in.Email)
	if err := s.checkOTP(ctx, email, in.OTP); err != nil {
		return err
	}
	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, "internal server error", err)
	}
	updated := false
	for _, a := range s.accounts {
		ok, err := a.setPassword(ctx, email, hash)
		if err != nil {
			return storeErr(err, "")
		}
		if ok {
			updated = true
			break
		}
	}
	if !updated {
		return apperr.NotFound("User not found")
	}
	if err := s.resets.Delete(ctx, email); err != nil {
		s.log.Warnw("reset record not deleted", "email", email, "error", err)
	}
	s.log.Infow("password reset", "email", email)
	return nil
}
