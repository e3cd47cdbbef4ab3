package service

import (
	"errors"

	"testit_backend/internal/config"
	"testit_backend/internal/model"
	"testit_backend/internal/repository"
	"testit_backend/internal/util"
	"testit_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	IsTeacher bool   `json:"isTeacher"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// Register 注册新用户，邮箱唯一，密码使用 bcrypt 存储
func (s *AuthService) Register(req *RegisterRequest) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsTeacher: req.IsTeacher,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.Uint("userID", user.ID), zap.Bool("isTeacher", user.IsTeacher))
	return user, nil
}

// Login 校验邮箱和密码，签发 JWT
func (s *AuthService) Login(req *LoginRequest) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	jwtCfg := s.cfg.JWT
	if live := config.Active(); live != nil {
		jwtCfg = live.JWT
	}
	token, err := util.GenerateJWT(user, jwtCfg.Secret, jwtCfg.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
