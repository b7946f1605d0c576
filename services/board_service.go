package services

import (
	"context"
	"maintrack-backend/authz"
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/utils/logger"
	"sort"
)

// BoardService projects the actor's visible requests into board views
type BoardService struct {
	requestRepo   repository.RequestRepositoryInterface
	equipmentRepo repository.EquipmentRepositoryInterface
	catalogRepo   repository.CatalogRepositoryInterface
	logger        logger.Logger
	now           Clock
}

func NewBoardService(repos repository.RepositoryContainerInterface, log logger.Logger) *BoardService {
	return &BoardService{
		requestRepo:   repos.GetRequestRepository(),
		equipmentRepo: repos.GetEquipmentRepository(),
		catalogRepo:   repos.GetCatalogRepository(),
		logger:        log,
		now:           systemClock,
	}
}

func (s *BoardService) WithClock(clock Clock) *BoardService {
	s.now = clock
	return s
}

// scopedRequests lists what the actor may see, narrowed by extra, newest first
func scopedRequests(ctx context.Context, repo repository.RequestRepositoryInterface, actor models.Actor, extra models.RequestFilter) ([]*models.MaintenanceRequest, error) {
	filter, ok := authz.Scope(actor)
	if !ok {
		return []*models.MaintenanceRequest{}, nil
	}
	filter.EquipmentID = extra.EquipmentID
	filter.Type = extra.Type
	filter.Stages = extra.Stages

	requests, err := repo.GetRequestsByFilter(ctx, &filter)
	if err != nil {
		return nil, err
	}
	visible := authz.FilterVisible(actor, requests)
	sortNewestFirst(visible)
	return visible, nil
}

// Kanban groups visible requests into one column per stage
func (s *BoardService) Kanban(ctx context.Context, actor models.Actor) ([]*models.KanbanColumn, error) {
	requests, err := scopedRequests(ctx, s.requestRepo, actor, models.RequestFilter{})
	if err != nil {
		s.logger.Errorf("Failed to build kanban for %s: %v", actor.ID, err)
		return nil, err
	}

	now := s.now()
	columns := make([]*models.KanbanColumn, 0, len(models.Stages))
	byStage := make(map[models.Stage]*models.KanbanColumn, len(models.Stages))
	for _, stage := range models.Stages {
		col := &models.KanbanColumn{Stage: stage, Cards: []*models.RequestCard{}}
		columns = append(columns, col)
		byStage[stage] = col
	}

	for _, req := range requests {
		col, ok := byStage[req.Stage]
		if !ok {
			s.logger.Warnf("Request %s has unknown stage %q", req.ID, req.Stage)
			continue
		}
		col.Cards = append(col.Cards, &models.RequestCard{MaintenanceRequest: req, IsOverdue: req.IsOverdue(now)})
	}

	s.logger.Debugf("Kanban for %s holds %d requests", actor.ID, len(requests))
	return columns, nil
}

// Calendar lists visible preventive requests by scheduled date
func (s *BoardService) Calendar(ctx context.Context, actor models.Actor) ([]*models.CalendarEvent, error) {
	requests, err := scopedRequests(ctx, s.requestRepo, actor, models.RequestFilter{Type: models.RequestPreventive})
	if err != nil {
		s.logger.Errorf("Failed to build calendar for %s: %v", actor.ID, err)
		return nil, err
	}

	names := make(map[string]string)
	events := make([]*models.CalendarEvent, 0, len(requests))
	for _, req := range requests {
		if req.ScheduledDate == nil {
			continue
		}
		events = append(events, &models.CalendarEvent{
			ID:            req.ID,
			Title:         req.Subject,
			Start:         *req.ScheduledDate,
			EquipmentName: s.targetName(ctx, req, names),
			Stage:         req.Stage,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

// targetName resolves the display name of the equipment, or the work center
// snapshot for work center requests. Lookups are memoized per call.
func (s *BoardService) targetName(ctx context.Context, req *models.MaintenanceRequest, names map[string]string) string {
	if req.EquipmentID == "" {
		return req.CategorySnapshot
	}
	if name, ok := names[req.EquipmentID]; ok {
		return name
	}
	name := ""
	if equipment, err := s.equipmentRepo.GetEquipment(ctx, req.EquipmentID); err == nil {
		name = equipment.Name
	} else {
		s.logger.Warnf("Calendar could not resolve equipment %s: %v", req.EquipmentID, err)
	}
	names[req.EquipmentID] = name
	return name
}

// ByEquipment lists the visible requests of one equipment
func (s *BoardService) ByEquipment(ctx context.Context, actor models.Actor, equipmentID string) ([]*models.RequestCard, error) {
	if _, err := s.equipmentRepo.GetEquipment(ctx, equipmentID); err != nil {
		return nil, err
	}

	requests, err := scopedRequests(ctx, s.requestRepo, actor, models.RequestFilter{EquipmentID: equipmentID})
	if err != nil {
		return nil, err
	}

	now := s.now()
	cards := make([]*models.RequestCard, 0, len(requests))
	for _, req := range requests {
		cards = append(cards, &models.RequestCard{MaintenanceRequest: req, IsOverdue: req.IsOverdue(now)})
	}
	return cards, nil
}
