package services

import (
	"context"
	"fmt"
	"maintrack-backend/apperror"
	"maintrack-backend/authz"
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/utils/logger"
	"sort"
	"strings"
)

// EquipmentService manages equipment records. Every status it returns is
// the derived one; the stored field is reported alongside as storedStatus.
type EquipmentService struct {
	equipmentRepo repository.EquipmentRepositoryInterface
	teamRepo      repository.TeamRepositoryInterface
	catalogRepo   repository.CatalogRepositoryInterface
	deriver       *StatusDeriver
	logger        logger.Logger
	now           Clock
}

func NewEquipmentService(repos repository.RepositoryContainerInterface, deriver *StatusDeriver, log logger.Logger) *EquipmentService {
	return &EquipmentService{
		equipmentRepo: repos.GetEquipmentRepository(),
		teamRepo:      repos.GetTeamRepository(),
		catalogRepo:   repos.GetCatalogRepository(),
		deriver:       deriver,
		logger:        log,
		now:           systemClock,
	}
}

func (s *EquipmentService) WithClock(clock Clock) *EquipmentService {
	s.now = clock
	return s
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, actor models.Actor, req *models.CreateEquipmentRequest) (*models.EquipmentView, error) {
	if err := authz.RequireManager(actor, "register equipment"); err != nil {
		return nil, err
	}
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("equipment name is required")
	}

	status := req.Status
	if status == "" {
		status = models.EquipmentActive
	}
	if !status.Valid() || status == models.EquipmentScrap {
		return nil, apperror.Validation("equipment cannot be created with status %q", status)
	}

	if _, err := s.teamRepo.GetTeam(ctx, req.TeamID); err != nil {
		return nil, err
	}
	category, err := s.catalogRepo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	equipment, err := s.equipmentRepo.CreateEquipment(ctx, &models.Equipment{
		Name:         strings.TrimSpace(req.Name),
		SerialNumber: req.SerialNumber,
		CategoryID:   category.ID,
		Department:   req.Department,
		Company:      req.Company,
		Location:     req.Location,
		TeamID:       req.TeamID,
		Status:       status,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	view, err := s.deriver.View(ctx, equipment)
	if err != nil {
		return nil, err
	}
	view.CategoryName = category.Name
	return view, nil
}

func (s *EquipmentService) GetEquipment(ctx context.Context, id string) (*models.EquipmentView, error) {
	equipment, err := s.equipmentRepo.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.deriver.View(ctx, equipment)
	if err != nil {
		return nil, err
	}
	if category, err := s.catalogRepo.GetCategory(ctx, equipment.CategoryID); err == nil {
		view.CategoryName = category.Name
	}
	return view, nil
}

// ListEquipment returns equipment with derived status, ordered by name
func (s *EquipmentService) ListEquipment(ctx context.Context, filter *models.EquipmentFilter) ([]*models.EquipmentView, error) {
	equipment, err := s.equipmentRepo.GetEquipmentByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, equipment)
}

// ActiveEquipment is every equipment whose derived status is not SCRAP
func (s *EquipmentService) ActiveEquipment(ctx context.Context) ([]*models.EquipmentView, error) {
	views, err := s.ListEquipment(ctx, nil)
	if err != nil {
		return nil, err
	}
	active := make([]*models.EquipmentView, 0, len(views))
	for _, v := range views {
		if v.Status != models.EquipmentScrap {
			active = append(active, v)
		}
	}
	return active, nil
}

func (s *EquipmentService) views(ctx context.Context, equipment []*models.Equipment) ([]*models.EquipmentView, error) {
	statuses, err := s.deriver.StatusMap(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*models.EquipmentView, 0, len(equipment))
	for _, e := range equipment {
		view := newEquipmentView(e, statuses[e.ID])
		view.CategoryName = categories[e.CategoryID]
		views = append(views, view)
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Name < views[j].Name
	})
	return views, nil
}

func (s *EquipmentService) categoryNames(ctx context.Context) (map[string]string, error) {
	categories, err := s.catalogRepo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// UpdateStatus is the manual status edit. It only changes the stored
// status; the derived status keeps following open requests.
func (s *EquipmentService) UpdateStatus(ctx context.Context, actor models.Actor, id string, req *models.UpdateEquipmentStatusRequest) (*models.EquipmentView, error) {
	if err := authz.RequireManager(actor, "edit equipment status"); err != nil {
		return nil, err
	}
	if req == nil || !req.Status.Valid() {
		return nil, apperror.Validation("a valid equipment status is required")
	}

	equipment, err := s.equipmentRepo.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = fmt.Sprintf("Status changed from %s to %s", equipment.Status, req.Status)
	}
	equipment.Status = req.Status
	equipment.AppendNote(now, actor.ID, note)
	equipment.UpdatedAt = now

	if err := s.equipmentRepo.UpdateEquipment(ctx, equipment); err != nil {
		return nil, err
	}
	s.logger.Infof("Equipment %s stored status set to %s by %s", equipment.ID, equipment.Status, actor.ID)
	return s.deriver.View(ctx, equipment)
}

// AddNote appends a remark. Managers may annotate anything, technicians
// only equipment owned by one of their teams.
func (s *EquipmentService) AddNote(ctx context.Context, actor models.Actor, id string, text string) (*models.EquipmentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Validation("note text is required")
	}

	equipment, err := s.equipmentRepo.GetEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.IsManager():
	case actor.IsTechnician() && actor.InTeam(equipment.TeamID):
	default:
		return nil, apperror.Forbidden(string(actor.Role), "you may not annotate equipment %s", equipment.ID)
	}

	now := s.now()
	equipment.AppendNote(now, actor.ID, text)
	equipment.UpdatedAt = now
	if err := s.equipmentRepo.UpdateEquipment(ctx, equipment); err != nil {
		return nil, err
	}
	return s.deriver.View(ctx, equipment)
}

// CountByCategory counts equipment per category, categories without
// equipment included
func (s *EquipmentService) CountByCategory(ctx context.Context) ([]*models.CategoryCount, error) {
	categories, err := s.catalogRepo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	equipment, err := s.equipmentRepo.GetEquipmentByFilter(ctx, nil)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, e := range equipment {
		counts[e.CategoryID]++
	}

	result := make([]*models.CategoryCount, 0, len(categories))
	for _, c := range categories {
		result = append(result, &models.CategoryCount{CategoryID: c.ID, CategoryName: c.Name, Count: counts[c.ID]})
	}
	return result, nil
}
