package authService

import (
	"Perception/internal/api/auth"
	"Perception/internal/entity"
	contextPkg "Perception/pkg/context"
	"context"

	"github.com/sirupsen/logrus"
)

func (s *userDomainImpl) RegisterUser(c context.Context, req auth.CreateUserRequest) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	hashed, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return err
	}

	user := entity.User{
		Username: req.Username,
		Password: hashed,
	}

	if err := repo.Users.CreateUser(c, user); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   req.Username,
	}).Info("User registered")

	return nil
}
