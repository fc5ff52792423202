package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/cryptox"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

// DefaultMinPasswordLength is the shortest master password Register accepts
// unless configured otherwise.
const DefaultMinPasswordLength = 8

// AuthService defines the authentication ledger.
//
// Contract:
//   - Register: create a user with a fresh salt and verifier; fails with
//     common.ErrDuplicateUser if the username is taken.
//   - Verify: report whether password matches; false for unknown users.
//   - Exists: report whether username is registered.
//   - Authenticate: return the stored user or common.ErrInvalidCredentials.
//
// Unknown usernames and wrong passwords are indistinguishable to callers.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Verify(ctx context.Context, username string, password []byte) (bool, error)
	Exists(ctx context.Context, username string) (bool, error)
	Authenticate(ctx context.Context, username string, password []byte) (*models.User, error)
}

type authService struct {
	store  UserStore
	minLen int
	log    logging.Logger
	// dummySalt feeds the derivation for unknown users.
	dummySalt []byte
}

// NewAuthService constructs an AuthService over store. minLen below 1 falls
// back to DefaultMinPasswordLength.
func NewAuthService(store UserStore, minLen int, log logging.Logger) AuthService {
	if minLen < 1 {
		minLen = DefaultMinPasswordLength
	}
	if log == nil {
		log = logging.Nop()
	}
	return &authService{store: store, minLen: minLen, log: log, dummySalt: cryptox.NewSalt()}
}

func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: empty username", common.ErrInvalidInput)
	}
	exists, err := a.Exists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("register %q: %w", username, common.ErrDuplicateUser)
	}
	if utf8.RuneCount(password) < a.minLen {
		return fmt.Errorf("%w: need at least %d characters", common.ErrWeakPassword, a.minLen)
	}

	salt := cryptox.NewSalt()
	u := models.User{
		Username:  username,
		Salt:      salt,
		Verifier:  cryptox.MakeVerifier(password, salt),
		CreatedAt: a.store.Now().UTC(),
	}
	// AppendUser re-checks under the store lock.
	if err := a.store.AppendUser(ctx, u); err != nil {
		return fmt.Errorf("register %q: %w", username, err)
	}
	a.log.Info(ctx, "user registered", "username", username)
	return nil
}

func (a *authService) Verify(ctx context.Context, username string, password []byte) (bool, error) {
	_, err := a.Authenticate(ctx, username, password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (a *authService) Exists(ctx context.Context, username string) (bool, error) {
	_, err := a.store.FindUser(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (a *authService) Authenticate(ctx context.Context, username string, password []byte) (*models.User, error) {
	u, err := a.store.FindUser(ctx, username)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if u == nil {
		// Same work as a real check so timing does not reveal the username.
		_ = cryptox.MatchVerifier(password, a.dummySalt, a.dummySalt)
		a.log.Debug(ctx, "authentication failed", "username", username)
		return nil, common.ErrInvalidCredentials
	}

	if !cryptox.MatchVerifier(password, u.Salt, u.Verifier) {
		a.log.Debug(ctx, "authentication failed", "username", username)
		return nil, common.ErrInvalidCredentials
	}
	return u, nil
}
