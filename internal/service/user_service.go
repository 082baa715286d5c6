package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/cache"
	"portfolio-cms/pkg/hash"
	"portfolio-cms/pkg/log"
	"portfolio-cms/pkg/token"

	"gorm.io/gorm"
)

// InitUsersInput 初始化管理员与只读账号的请求体。
type InitUsersInput struct {
	SuperadminUsername string `json:"superadminUsername" binding:"required"`
	SuperadminPassword string `json:"superadminPassword" binding:"required,min=8"`
	SuperadminRole     string `json:"superadminRole" binding:"required"`
	AnonymousUsername  string `json:"anonymousUsername" binding:"required"`
	AnonymousPassword  string `json:"anonymousPassword" binding:"required,min=8"`
	AnonymousRole      string `json:"anonymousRole" binding:"required"`
}

// LoginResult 是登录与刷新 token 的返回结果。
type LoginResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

const blacklistPrefix = "blacklist:"

// UserService 接口定义了所有与用户相关的业务操作。
type UserService interface {
	InitUsers(ctx context.Context, setupToken string, in InitUsersInput) ([]model.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, accessToken string) error
	IsTokenRevoked(ctx context.Context, accessToken string) bool
	GetProfile(ctx context.Context, id string) (*model.User, error)
}

// userService 是 UserService 接口的实现。
type userService struct {
	tx         repository.Transactor
	userRepo   repository.UserRepository
	jwtManager *token.JWTManager
	store      cache.Store
	setupToken string
}

// NewUserService 创建一个新的 UserService 实例。setupToken 为空时禁止初始化账号。
func NewUserService(tx repository.Transactor, userRepo repository.UserRepository, jwtManager *token.JWTManager, store cache.Store, setupToken string) UserService {
	return &userService{
		tx:         tx,
		userRepo:   userRepo,
		jwtManager: jwtManager,
		store:      store,
		setupToken: setupToken,
	}
}

const userScope = "UserService"

// InitUsers 只在系统中还没有任何用户时创建初始的两个账号。
func (s *userService) InitUsers(ctx context.Context, setupToken string, in InitUsersInput) ([]model.User, error) {
	// 1. 校验一次性初始化令牌
	if s.setupToken == "" || subtle.ConstantTimeCompare([]byte(setupToken), []byte(s.setupToken)) != 1 {
		return nil, Unauthorized("初始化令牌无效或未配置")
	}
	if !model.ValidRole(in.SuperadminRole) || !model.ValidRole(in.AnonymousRole) {
		return nil, BadRequest("角色必须为 SUPERADMIN 或 READER")
	}
	if in.SuperadminUsername == in.AnonymousUsername {
		return nil, BadRequest("两个账号的用户名不能相同")
	}

	// 2. 对密码进行哈希处理
	superHash, err := hash.HashPassword(in.SuperadminPassword)
	if err != nil {
		return nil, Internal(err)
	}
	readerHash, err := hash.HashPassword(in.AnonymousPassword)
	if err != nil {
		return nil, Internal(err)
	}
	users := []model.User{
		{Username: in.SuperadminUsername, PasswordHash: superHash, Role: in.SuperadminRole},
		{Username: in.AnonymousUsername, PasswordHash: readerHash, Role: in.AnonymousRole},
	}

	// 3. 检查用户表为空后写入
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		count, err := s.userRepo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return BadRequest("系统中已存在用户，初始化只能执行一次")
		}
		for i := range users {
			if err := s.userRepo.Create(ctx, &users[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(userScope, err, "", "用户名已存在")
	}
	log.Infof("[UserService] 初始账号创建成功: %s, %s", in.SuperadminUsername, in.AnonymousUsername)
	return users, nil
}

// Login 处理用户登录的业务逻辑。
func (s *userService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	// 1. 查找用户
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("用户名或密码错误")
		}
		return nil, storeErr(userScope, err, "", "")
	}

	// 2. 验证密码
	if !hash.CheckPasswordHash(password, user.PasswordHash) {
		return nil, Unauthorized("用户名或密码错误")
	}

	// 3. 生成 access token 和 refresh token
	return s.issue(user)
}

// RefreshToken 验证 refresh token 并签发新的 access token 和 refresh token。
func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, Unauthorized("refresh token 无效")
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("用户不存在")
		}
		return nil, storeErr(userScope, err, "", "")
	}
	return s.issue(user)
}

// Logout 将 access token 加入黑名单，过期时间为 token 的剩余有效期。
func (s *userService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtManager.VerifyAccessToken(accessToken)
	if err != nil {
		return Unauthorized("token 无效")
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.store.Set(ctx, blacklistPrefix+accessToken, []byte("1"), ttl); err != nil {
		log.Errorf("[UserService] 写入 token 黑名单失败: %v", err)
		return Internal(err)
	}
	return nil
}

// IsTokenRevoked 判断 token 是否已登出。缓存不可用时视为未登出。
func (s *userService) IsTokenRevoked(ctx context.Context, accessToken string) bool {
	_, err := s.store.Get(ctx, blacklistPrefix+accessToken)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warnf("[UserService] 查询 token 黑名单失败: %v", err)
	}
	return false
}

// GetProfile 根据用户 ID 获取用户详细信息。
func (s *userService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(userScope, err, "用户不存在", "")
	}
	return user, nil
}

func (s *userService) issue(user *model.User) (*LoginResult, error) {
	access, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, Internal(err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, Internal(err)
	}
	return &LoginResult{Token: access, RefreshToken: refresh, User: user}, nil
}
