package service

import (
	"context"

	"github.com/Ikeepmyideas/HealthTime/internal/domain/entity"
	"github.com/Ikeepmyideas/HealthTime/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService records audit entries inside the caller's transaction so the
// trail commits or rolls back together with the booking effect it describes.
type AuditService interface {
	Record(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
