package services

import (
	"context"
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/utils/logger"
	"sort"
)

// DeriveStatus computes an equipment status from its requests. REPAIRED
// requests are ignored; of the rest SCRAP wins over IN_PROGRESS, which wins
// over a NEW corrective request. Anything else is ACTIVE.
func DeriveStatus(requests []*models.MaintenanceRequest) models.EquipmentStatus {
	var inProgress, damaged bool
	for _, req := range requests {
		switch req.Stage {
		case models.StageScrap:
			return models.EquipmentScrap
		case models.StageInProgress:
			inProgress = true
		case models.StageNew:
			if req.Type == models.RequestCorrective {
				damaged = true
			}
		}
	}

	switch {
	case inProgress:
		return models.EquipmentUnderMaintenance
	case damaged:
		return models.EquipmentDamaged
	}
	return models.EquipmentActive
}

// StatusDeriver recomputes equipment status from the request store on every call
type StatusDeriver struct {
	requestRepo repository.RequestRepositoryInterface
	logger      logger.Logger
}

func NewStatusDeriver(requestRepo repository.RequestRepositoryInterface, log logger.Logger) *StatusDeriver {
	return &StatusDeriver{requestRepo: requestRepo, logger: log}
}

var openStages = []models.Stage{models.StageNew, models.StageInProgress, models.StageScrap}

// OpenRequests returns the non-REPAIRED requests of one equipment, newest first
func (d *StatusDeriver) OpenRequests(ctx context.Context, equipmentID string) ([]*models.MaintenanceRequest, error) {
	requests, err := d.requestRepo.GetRequestsByFilter(ctx, &models.RequestFilter{
		EquipmentID: equipmentID,
		Stages:      openStages,
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(requests)
	return requests, nil
}

// Status derives the live status of one equipment
func (d *StatusDeriver) Status(ctx context.Context, equipmentID string) (models.EquipmentStatus, error) {
	requests, err := d.OpenRequests(ctx, equipmentID)
	if err != nil {
		d.logger.Errorf("Failed to derive status for equipment %s: %v", equipmentID, err)
		return "", err
	}
	return DeriveStatus(requests), nil
}

// StatusMap derives statuses for many equipment records from one scan of
// the request table. Equipment without requests is ACTIVE.
func (d *StatusDeriver) StatusMap(ctx context.Context) (map[string]models.EquipmentStatus, error) {
	requests, err := d.requestRepo.GetRequestsByFilter(ctx, &models.RequestFilter{Stages: openStages})
	if err != nil {
		return nil, err
	}
	return statusesByEquipment(requests), nil
}

func statusesByEquipment(requests []*models.MaintenanceRequest) map[string]models.EquipmentStatus {
	grouped := make(map[string][]*models.MaintenanceRequest)
	for _, req := range requests {
		if req.EquipmentID == "" || req.Stage == models.StageRepaired {
			continue
		}
		grouped[req.EquipmentID] = append(grouped[req.EquipmentID], req)
	}

	statuses := make(map[string]models.EquipmentStatus, len(grouped))
	for id, reqs := range grouped {
		statuses[id] = DeriveStatus(reqs)
	}
	return statuses
}

// View wraps the stored record with its derived status
func (d *StatusDeriver) View(ctx context.Context, equipment *models.Equipment) (*models.EquipmentView, error) {
	status, err := d.Status(ctx, equipment.ID)
	if err != nil {
		return nil, err
	}
	return newEquipmentView(equipment, status), nil
}

func newEquipmentView(equipment *models.Equipment, derived models.EquipmentStatus) *models.EquipmentView {
	if derived == "" {
		derived = models.EquipmentActive
	}
	return &models.EquipmentView{
		Equipment:    *equipment,
		Status:       derived,
		StoredStatus: equipment.Status,
	}
}

// sortNewestFirst orders by creation time descending, id breaking ties
func sortNewestFirst(requests []*models.MaintenanceRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID > requests[j].ID
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
