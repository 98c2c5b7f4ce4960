package authService

import (
	"Perception/internal/api/auth"
	contextPkg "Perception/pkg/context"
	"context"

	"github.com/sirupsen/logrus"
)

func (s *activityDomainImpl) RecordActivity(c context.Context, username, activity string) error {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(c),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	return repo.Activities.CreateActivity(c, username, activity)
}

func (s *activityDomainImpl) GetActivities(c context.Context, username string) (auth.ActivitiesResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.ActivitiesResponse{}, err
	}

	activities, err := repo.Activities.GetByUsername(c, username)
	if err != nil {
		return auth.ActivitiesResponse{}, err
	}

	res := auth.ActivitiesResponse{
		Activities: make([]auth.ActivityResponse, 0, len(activities)),
	}
	for _, a := range activities {
		res.Activities = append(res.Activities, auth.ActivityResponse{
			Username:  a.Username,
			Activity:  a.Activity,
			Timestamp: a.Timestamp,
		})
	}

	return res, nil
}
