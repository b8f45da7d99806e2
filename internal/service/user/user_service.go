package user

import (
	"context"

	"fleamarket/internal/model"
	"fleamarket/internal/repository"
	"fleamarket/pkg/utils"
)

// UpdateProfileRequest update-profile request
type UpdateProfileRequest struct {
	Nickname  *string `json:"nickname" binding:"omitempty,max=50"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=500"`
	School    *string `json:"school" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
}

// UserService user service interface
type UserService interface {
	// GetProfile gets a user's profile
	GetProfile(ctx context.Context, userID uint64) (*model.User, error)

	// UpdateProfile updates the user's own profile
	UpdateProfile(ctx context.Context, userID uint64, req *UpdateProfileRequest) (*model.User, error)

	// ListPurchases lists the user's buying history, most recent first
	ListPurchases(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Purchase, int64, error)
}

// userService user service implementation
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a user service
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetProfile gets a user's profile
func (s *userService) GetProfile(ctx context.Context, userID uint64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile updates the user's own profile
func (s *userService) UpdateProfile(ctx context.Context, userID uint64, req *UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil {
		user.Nickname = req.Nickname
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.School != nil {
		user.School = req.School
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to update profile")
	}
	return user, nil
}

// ListPurchases lists the user's buying history
func (s *userService) ListPurchases(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Purchase, int64, error) {
	return s.userRepo.ListPurchases(ctx, userID, page, pageSize)
}
