// services/user_service.go
package services

import (
	"errors"

	"enb-blast-service/models"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

var ErrInvalidWalletAddress = errors.New("invalid wallet address")

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// EnsureUser returns the profile for a FID, creating it on first sight
// (idempotent).
func (s *UserService) EnsureUser(fid int64) (*models.User, error) {
	var user models.User
	if err := s.DB.Where(models.User{FID: fid}).FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// BindWallet stores the wallet a FID will claim with. Claim signatures are
// only ever issued against this stored address.
func (s *UserService) BindWallet(fid int64, walletAddress string) (*models.User, error) {
	if !common.IsHexAddress(walletAddress) {
		return nil, ErrInvalidWalletAddress
	}

	user, err := s.EnsureUser(fid)
	if err != nil {
		return nil, err
	}
	user.WalletAddress = common.HexToAddress(walletAddress).Hex()
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUsername sets the display name shown on leaderboards.
func (s *UserService) UpdateUsername(fid int64, username string) (*models.User, error) {
	user, err := s.EnsureUser(fid)
	if err != nil {
		return nil, err
	}
	user.Username = username
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
