package authService

import (
	"Perception/internal/api/auth"
	authRepository "Perception/internal/api/auth/repository"
	"Perception/pkg/bcrypt"
	"Perception/pkg/redis"
	"Perception/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type AuthService interface {
	User() UserDomain
	Auth() AuthDomain
	Activity() ActivityDomain
	GetRepository() authRepository.Repository
}

type UserDomain interface {
	RegisterUser(c context.Context, req auth.CreateUserRequest) error
}

type AuthDomain interface {
	Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error)
	Logout(c context.Context, sessionID string) error
}

type ActivityDomain interface {
	RecordActivity(c context.Context, username, activity string) error
	GetActivities(c context.Context, username string) (auth.ActivitiesResponse, error)
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository
	redisServer    redis.IRedis
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils

	userDomain     UserDomain
	authDomain     AuthDomain
	activityDomain ActivityDomain
}

func (a *authService) User() UserDomain {
	return a.userDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

func (a *authService) Activity() ActivityDomain {
	return a.activityDomain
}

func (a *authService) GetRepository() authRepository.Repository {
	return a.authRepository
}

type userDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
}

type authDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	redisServer redis.IRedis
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

type activityDomainImpl struct {
	log  *logrus.Logger
	repo authRepository.Repository
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	redisServer redis.IRedis,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		log:            log,
		authRepository: authRepo,
		redisServer:    redisServer,
		bcryptUtils:    bcryptUtils,
		utils:          utils,

		userDomain:     &userDomainImpl{log: log, repo: authRepo, bcryptUtils: bcryptUtils},
		authDomain:     &authDomainImpl{log: log, repo: authRepo, redisServer: redisServer, bcryptUtils: bcryptUtils, utils: utils},
		activityDomain: &activityDomainImpl{log: log, repo: authRepo},
	}
}
