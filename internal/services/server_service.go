package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ripplehq/ripple-backend/internal/models"
	"gorm.io/gorm"
)

var ErrServerNotFound = errors.New("server not found")

// ServerService serves server reads with membership-based visibility.
type ServerService struct {
	db *gorm.DB
}

func NewServerService(db *gorm.DB) *ServerService {
	return &ServerService{db: db}
}

// FetchVisible returns the server if the caller owns it or is a member.
// Anyone else gets ErrServerNotFound; existence is not disclosed.
func (s *ServerService) FetchVisible(serverID, userID uuid.UUID) (*models.Server, error) {
	var server models.Server
	if err := s.db.Where("id = ?", serverID).First(&server).Error; err != nil {
		return nil, ErrServerNotFound
	}

	if server.OwnerID == userID {
		return &server, nil
	}

	var member models.ServerMember
	err := s.db.Where("server_id = ? AND user_id = ?", serverID, userID).First(&member).Error
	if err != nil {
		return nil, ErrServerNotFound
	}
	return &server, nil
}
