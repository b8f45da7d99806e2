package admin

import (
	"context"

	"fleamarket/internal/model"
	"fleamarket/internal/repository"
	"fleamarket/pkg/utils"
)

// AdminService admin service interface
type AdminService interface {
	// GetAdmin gets an admin account
	GetAdmin(ctx context.Context, adminID uint64) (*model.Admin, error)

	// ListUsers lists marketplace users
	ListUsers(ctx context.Context, page, pageSize int, status int8) ([]*model.User, int64, error)

	// GetUser gets one user
	GetUser(ctx context.Context, userID uint64) (*model.User, error)

	// SetUserStatus blocks or unblocks a user
	SetUserStatus(ctx context.Context, actorID, userID uint64, status int8) error

	// AdjustUserValues shifts a user's credit and share scores
	AdjustUserValues(ctx context.Context, actorID, userID uint64, creditDelta, shareDelta int) error

	// ListAdmins lists admin accounts
	ListAdmins(ctx context.Context, page, pageSize int) ([]*model.Admin, int64, error)

	// RemoveGoods force-removes goods that violate the rules
	RemoveGoods(ctx context.Context, actorID, goodsID uint64) error
}

// adminService admin service implementation
type adminService struct {
	adminRepo repository.AdminRepository
	userRepo  repository.UserRepository
	goodsRepo repository.GoodsRepository
}

// NewAdminService creates an admin service
func NewAdminService(
	adminRepo repository.AdminRepository,
	userRepo repository.UserRepository,
	goodsRepo repository.GoodsRepository,
) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		userRepo:  userRepo,
		goodsRepo: goodsRepo,
	}
}

// GetAdmin gets an admin account
func (s *adminService) GetAdmin(ctx context.Context, adminID uint64) (*model.Admin, error) {
	return s.adminRepo.GetByID(ctx, adminID)
}

// ListUsers lists marketplace users
func (s *adminService) ListUsers(ctx context.Context, page, pageSize int, status int8) ([]*model.User, int64, error) {
	return s.userRepo.List(ctx, page, pageSize, status)
}

// GetUser gets one user
func (s *adminService) GetUser(ctx context.Context, userID uint64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// SetUserStatus blocks or unblocks a user
func (s *adminService) SetUserStatus(ctx context.Context, actorID, userID uint64, status int8) error {
	if status != model.UserStatusActive && status != model.UserStatusBlocked {
		return utils.NewError(utils.CodeInvalidParam, "invalid user status")
	}

	if err := s.requirePermission(ctx, actorID, model.PermUserManage); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to update user status")
	}
	return nil
}

// AdjustUserValues shifts a user's credit and share scores. Credit never
// drops below zero.
func (s *adminService) AdjustUserValues(ctx context.Context, actorID, userID uint64, creditDelta, shareDelta int) error {
	if err := s.requirePermission(ctx, actorID, model.PermUserManage); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.CreditValue += creditDelta
	if user.CreditValue < 0 {
		user.CreditValue = 0
	}
	user.ShareValue += shareDelta

	if err := s.userRepo.Update(ctx, user); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to adjust user values")
	}
	return nil
}

// ListAdmins lists admin accounts
func (s *adminService) ListAdmins(ctx context.Context, page, pageSize int) ([]*model.Admin, int64, error) {
	return s.adminRepo.List(ctx, page, pageSize)
}

// RemoveGoods force-removes goods that violate the rules
func (s *adminService) RemoveGoods(ctx context.Context, actorID, goodsID uint64) error {
	if err := s.requirePermission(ctx, actorID, model.PermGoodsReview); err != nil {
		return err
	}

	goods, err := s.goodsRepo.GetByID(ctx, goodsID)
	if err != nil {
		return err
	}
	if goods.IsSold() {
		return utils.NewError(utils.CodeConflict, "sold goods cannot be removed")
	}

	if err := s.goodsRepo.UpdateStatus(ctx, goodsID, model.GoodsStatusRemoved); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to remove goods")
	}
	return nil
}

// requirePermission checks the acting admin holds the permission
func (s *adminService) requirePermission(ctx context.Context, actorID uint64, perm string) error {
	admin, err := s.adminRepo.GetByID(ctx, actorID)
	if err != nil {
		return utils.ErrForbidden
	}
	if admin.Status != model.AdminStatusActive || !admin.Permissions.Has(perm) {
		return utils.ErrForbidden
	}
	return nil
}
