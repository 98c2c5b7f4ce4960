package authService

import (
	"Perception/internal/api/auth"
	"Perception/internal/entity"
	contextPkg "Perception/pkg/context"
	jwtPkg "Perception/pkg/jwt"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

const sessionTTL = time.Hour * 1

func (s *authDomainImpl) Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, err
	}

	user, err := repo.Users.GetByUsername(c, req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to get user by username")
			return auth.LoginUserResponse{}, auth.ErrInvalidUsernameOrPassword
		}

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get user by username")
		return auth.LoginUserResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(user.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Password comparison failed")
		return auth.LoginUserResponse{}, auth.ErrInvalidUsernameOrPassword
	}

	now := time.Now()
	sessionID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session ID")
		return auth.LoginUserResponse{}, err
	}

	session := entity.Session{
		ID:        sessionID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}

	if err := s.redisServer.SetSession(c, session, sessionTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to store session")
		return auth.LoginUserResponse{}, err
	}

	userData := MakeUserData(user, sessionID)

	token, expired, err := jwtPkg.Sign(userData, sessionTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginUserResponse{}, err
	}

	if err := repo.Activities.CreateActivity(c, user.Username, "User logged in"); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to record login activity")

		// The login failed after the session was stored; remove it so no
		// live session outlives a failed login.
		if delErr := s.redisServer.DeleteSession(c, sessionID); delErr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      delErr.Error(),
			}).Error("Failed to delete session after failed login")
		}
		return auth.LoginUserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   user.Username,
	}).Info("Token created")

	res := auth.LoginUserResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}

	return res, nil
}

func (s *authDomainImpl) Logout(c context.Context, sessionID string) error {
	requestID := contextPkg.GetRequestID(c)

	if err := s.redisServer.DeleteSession(c, sessionID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to delete session")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Session deleted")

	return nil
}
