package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/cryptox"
	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server/auth"
	"github.com/dmitrijs2005/imunetrack/internal/server/config"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imunetrack/internal/validation"
)

type UserService struct {
	conn                        dbx.Conn
	repomanager                 repomanager.RepositoryManager
	log                         logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(conn dbx.Conn, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		conn:                        conn,
		repomanager:                 m,
		log:                         log.With("module", "users"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func emailTaken() error { return common.Conflict("Email já cadastrado") }

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repomanager.Users(s.conn.DB()).List(ctx)
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repomanager.Users(s.conn.DB()).GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, func() error { return userNotFound(id) }, nil)
	}
	return u, nil
}

// FindByEmail normalizes email before the lookup.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	u, err := s.repomanager.Users(s.conn.DB()).GetByEmail(ctx, email)
	if err != nil {
		return nil, translate(err, func() error {
			return common.NotFound(fmt.Sprintf("Usuário com email %s não encontrado", email))
		}, nil)
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = validation.NormalizeEmail(email)

	if err := validation.First(
		validation.UserName(name),
		validation.Email(email),
		validation.Password(password),
	); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return emailTaken()
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		user, err = repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash, IsAdmin: isAdmin})
		return translate(err, nil, emailTaken)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user created", "user_id", user.ID, "is_admin", user.IsAdmin)
	return user, nil
}

// Update applies the non-nil fields of patch with the same rules as Create.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	var name, email, hash string

	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if err := validation.UserName(name); err != nil {
			return nil, err
		}
	}
	if patch.Email != nil {
		email = validation.NormalizeEmail(*patch.Email)
		if err := validation.Email(email); err != nil {
			return nil, err
		}
	}
	if patch.Password != nil {
		if err := validation.Password(*patch.Password); err != nil {
			return nil, err
		}
		var err error
		if hash, err = cryptox.HashPassword(*patch.Password); err != nil {
			return nil, err
		}
	}

	var user *models.User
	err := s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return translate(err, func() error { return userNotFound(id) }, nil)
		}

		if patch.Name != nil {
			u.Name = name
		}
		if patch.Email != nil && email != u.Email {
			other, err := repo.GetByEmail(ctx, email)
			switch {
			case err == nil && other.ID != id:
				return emailTaken()
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return err
			}
			u.Email = email
		}
		if patch.Password != nil {
			u.PasswordHash = hash
		}
		if patch.IsAdmin != nil {
			u.IsAdmin = *patch.IsAdmin
		}

		user, err = repo.Update(ctx, u)
		return translate(err, func() error { return userNotFound(id) }, emailTaken)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes the user and, through the storage cascade, its history.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.conn.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Users(tx).Delete(ctx, id)
		return translate(err, func() error { return userNotFound(id) }, nil)
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// Authenticate returns nil without error when the email is unknown or the
// password does not match.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repomanager.Users(s.conn.DB()).GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	ok, err := cryptox.CheckPassword(u.PasswordHash, password)
	if err != nil {
		s.log.Warn(ctx, "stored password hash unusable", "user_id", u.ID, "error", err)
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return u, nil
}

// Login authenticates and issues an access token. Bad credentials are
// reported as common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", common.NewError(common.ErrorUnauthorized, "Email ou senha incorretos")
	}

	token, err := auth.GenerateToken(u.ID, u.IsAdmin, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return u, token, nil
}
