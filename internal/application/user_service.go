package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/my-maps-api/config"
	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
	"github.com/oksasatya/my-maps-api/pkg/mailer"
	"github.com/oksasatya/my-maps-api/pkg/mailer/templates"
)

// UserIndexer mirrors user profiles into the search index.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
}

// JobPublisher enqueues JSON jobs (the RabbitMQ publisher in production).
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type Service struct {
	Repo    repo.UserRepository
	Avatars *AvatarIngestor
	Index   UserIndexer
	Mail    JobPublisher
	Cfg     *config.Config
	Logger  *logrus.Logger
}

func NewService(repo repo.UserRepository, avatars *AvatarIngestor, index UserIndexer, mail JobPublisher, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		Repo:    repo,
		Avatars: avatars,
		Index:   index,
		Mail:    mail,
		Cfg:     cfg,
		Logger:  logger,
	}
}

// SignupInput carries the plaintext password; it is hashed by the repository.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Avatar   string
	Profile  map[string]any
}

type EditProfileInput struct {
	ID       int64
	Username string
	Email    string
	Password string
	Avatar   string
	Profile  map[string]any
}

// Signup stores the avatar (if any) and then creates the user. Nothing is
// inserted when the avatar cannot be stored.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	avatar, err := s.Avatars.Ingest(ctx, in.Avatar, in.Username, AvatarCreate)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	u := &entity.User{
		Email:    in.Email,
		Username: in.Username,
		Password: in.Password,
		Avatar:   avatar,
		Profile:  in.Profile,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.index(ctx, u)
	s.notify(ctx, u, mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data:     templates.NewWelcomeData(s.cfg(), u.Username, u.Email, templates.WithTime(time.Now())),
	})
	return u, nil
}

// Login checks the credentials; a miss is reported as repository.ErrUserNotFound.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, error) {
	return s.Repo.Authenticate(ctx, email, password)
}

// EditProfile replaces the stored user in.ID with the supplied fields. The
// caller-supplied id is trusted as is.
func (s *Service) EditProfile(ctx context.Context, in EditProfileInput) (*entity.User, error) {
	if in.ID == 0 {
		return nil, fmt.Errorf("edit profile: %w", repo.ErrMissingID)
	}
	avatar, err := s.Avatars.Ingest(ctx, in.Avatar, in.Username, AvatarEdit)
	if err != nil {
		return nil, fmt.Errorf("edit profile %d: %w", in.ID, err)
	}
	u := &entity.User{
		ID:       in.ID,
		Email:    in.Email,
		Username: in.Username,
		Password: in.Password,
		Avatar:   avatar,
		Profile:  in.Profile,
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("edit profile %d: %w", in.ID, err)
	}

	s.index(ctx, u)
	changes := map[string]string{"username": u.Username, "email": u.Email}
	if avatar != in.Avatar {
		changes["avatar"] = "new picture"
	}
	s.notify(ctx, u, mailer.EmailJob{
		To:       u.Email,
		Template: templates.ProfileUpdated,
		Data:     templates.NewProfileUpdatedData(s.cfg(), u.Username, u.Email, changes, templates.WithTime(time.Now())),
	})
	return u, nil
}

func (s *Service) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user index failed")
	}
}

func (s *Service) notify(ctx context.Context, u *entity.User, job mailer.EmailJob) {
	if s.Mail == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled || u.Email == "" {
		return
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).WithField("template", job.Template).Warn("failed to publish email job")
	}
}

func (s *Service) cfg() *config.Config {
	if s.Cfg == nil {
		return &config.Config{}
	}
	return s.Cfg
}
