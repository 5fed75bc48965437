package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:            model.ID,
		TransactionID: model.TransactionID,
		InitiatorID:   model.InitiatorID,
		Category:      domain.DisputeCategory(model.Category),
		Description:   model.Description,
		Status:        domain.DisputeStatus(model.Status),
		Resolution:    domain.DisputeResolution(model.Resolution),
		RefundAmount:  model.RefundAmount,
		AdminNote:     model.AdminNote,
		ResolvedBy:    model.ResolvedBy,
		ResolvedAt:    model.ResolvedAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:            dispute.ID,
		TransactionID: dispute.TransactionID,
		InitiatorID:   dispute.InitiatorID,
		Category:      string(dispute.Category),
		Description:   dispute.Description,
		Status:        string(dispute.Status),
		Resolution:    string(dispute.Resolution),
		RefundAmount:  dispute.RefundAmount,
		AdminNote:     dispute.AdminNote,
		ResolvedBy:    dispute.ResolvedBy,
		ResolvedAt:    dispute.ResolvedAt,
		CreatedAt:     dispute.CreatedAt,
		UpdatedAt:     dispute.UpdatedAt,
	}
}

func ToDomainEvidence(model *models.EvidenceModel) *domain.Evidence {
	return &domain.Evidence{
		ID:         model.ID,
		DisputeID:  model.DisputeID,
		UploaderID: model.UploaderID,
		FileURL:    model.FileURL,
		FileType:   model.FileType,
		Note:       model.Note,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMEvidence(evidence *domain.Evidence) *models.EvidenceModel {
	return &models.EvidenceModel{
		ID:         evidence.ID,
		DisputeID:  evidence.DisputeID,
		UploaderID: evidence.UploaderID,
		FileURL:    evidence.FileURL,
		FileType:   evidence.FileType,
		Note:       evidence.Note,
		CreatedAt:  evidence.CreatedAt,
	}
}
