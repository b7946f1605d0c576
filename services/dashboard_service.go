package services

import (
	"context"
	"maintrack-backend/authz"
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/utils/logger"
	"math"
	"sort"
	"time"
)

// DashboardService computes the manager overview from a full scan of
// requests and equipment. Nothing is cached.
type DashboardService struct {
	requestRepo   repository.RequestRepositoryInterface
	equipmentRepo repository.EquipmentRepositoryInterface
	userRepo      repository.UserRepositoryInterface
	teamRepo      repository.TeamRepositoryInterface
	catalogRepo   repository.CatalogRepositoryInterface
	config        *models.Config
	logger        logger.Logger
	now           Clock
}

func NewDashboardService(repos repository.RepositoryContainerInterface, cfg *models.Config, log logger.Logger) *DashboardService {
	return &DashboardService{
		requestRepo:   repos.GetRequestRepository(),
		equipmentRepo: repos.GetEquipmentRepository(),
		userRepo:      repos.GetUserRepository(),
		teamRepo:      repos.GetTeamRepository(),
		catalogRepo:   repos.GetCatalogRepository(),
		config:        cfg,
		logger:        log,
		now:           systemClock,
	}
}

func (s *DashboardService) WithClock(clock Clock) *DashboardService {
	s.now = clock
	return s
}

// Stats builds the manager dashboard
func (s *DashboardService) Stats(ctx context.Context, actor models.Actor) (*models.DashboardStats, error) {
	if err := authz.RequireManager(actor, "view the dashboard"); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.GetRequestsByFilter(ctx, nil)
	if err != nil {
		return nil, err
	}
	equipment, err := s.equipmentRepo.GetEquipmentByFilter(ctx, nil)
	if err != nil {
		return nil, err
	}
	technicians, err := s.userRepo.GetUsersByRole(ctx, models.RoleTechnician)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &models.DashboardStats{
		CriticalEquipment: s.criticalEquipment(equipment, requests),
		GeneratedAt:       now,
	}

	open := make([]*models.MaintenanceRequest, 0, len(requests))
	assignedOpen := 0
	for _, req := range requests {
		if req.Stage.Terminal() {
			continue
		}
		open = append(open, req)
		if req.TechnicianID != "" {
			assignedOpen++
		}
		if req.IsOverdue(now) {
			stats.OverdueRequests++
		}
	}
	stats.OpenRequests = len(open)
	stats.TechnicianLoad = models.TechnicianLoad{
		Technicians:   len(technicians),
		AssignedOpen:  assignedOpen,
		UtilizationPc: Utilization(assignedOpen, len(technicians)),
	}

	stats.RecentRequests, err = s.recentRequests(ctx, open, equipment, now)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"actor_id":    actor.ID,
		"open":        stats.OpenRequests,
		"overdue":     stats.OverdueRequests,
		"critical":    len(stats.CriticalEquipment),
		"technicians": len(technicians),
	}).Debug("Dashboard computed")
	return stats, nil
}

// Utilization is the share of technicians with open work, capped at 100
func Utilization(assignedOpen, technicians int) int {
	if technicians <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(assignedOpen) / float64(technicians)))
	if pct > 100 {
		return 100
	}
	return pct
}

// Health maps a repair count onto 0..100 against the repair ceiling
func Health(repairs, ceiling int) int {
	if ceiling <= 0 {
		return 0
	}
	health := int(math.Round(100 - 100*float64(repairs)/float64(ceiling)))
	if health < 0 {
		return 0
	}
	return health
}

func (s *DashboardService) criticalEquipment(equipment []*models.Equipment, requests []*models.MaintenanceRequest) []*models.CriticalEquipment {
	repairs := make(map[string]int)
	for _, req := range requests {
		if req.Stage == models.StageRepaired && req.EquipmentID != "" {
			repairs[req.EquipmentID]++
		}
	}
	statuses := statusesByEquipment(requests)

	critical := make([]*models.CriticalEquipment, 0)
	for _, e := range equipment {
		count := repairs[e.ID]
		if count < s.config.CriticalRepairThreshold {
			continue
		}
		status, ok := statuses[e.ID]
		if !ok {
			status = models.EquipmentActive
		}
		critical = append(critical, &models.CriticalEquipment{
			EquipmentID:   e.ID,
			EquipmentName: e.Name,
			Repairs:       count,
			Health:        Health(count, s.config.RepairHealthCeiling),
			Status:        status,
		})
	}

	sort.SliceStable(critical, func(i, j int) bool {
		if critical[i].Repairs == critical[j].Repairs {
			return critical[i].EquipmentName < critical[j].EquipmentName
		}
		return critical[i].Repairs > critical[j].Repairs
	})
	return critical
}

func (s *DashboardService) recentRequests(ctx context.Context, open []*models.MaintenanceRequest, equipment []*models.Equipment, now time.Time) ([]*models.RecentRequest, error) {
	sortNewestFirst(open)
	limit := s.config.RecentRequestsLimit
	if limit <= 0 || limit > 10 {
		limit = 10
	}
	if len(open) > limit {
		open = open[:limit]
	}

	companies := make(map[string]string, len(equipment))
	for _, e := range equipment {
		companies[e.ID] = e.Company
	}
	userNames := make(map[string]string)

	recent := make([]*models.RecentRequest, 0, len(open))
	for _, req := range open {
		company := companies[req.EquipmentID]
		if req.WorkCenterID != "" {
			if wc, err := s.catalogRepo.GetWorkCenter(ctx, req.WorkCenterID); err == nil {
				company = wc.Company
			}
		}
		recent = append(recent, &models.RecentRequest{
			ID:         req.ID,
			Subject:    req.Subject,
			Stage:      req.Stage,
			Employee:   s.userName(ctx, req.CreatedBy, userNames),
			Technician: s.userName(ctx, req.TechnicianID, userNames),
			Category:   req.CategorySnapshot,
			Company:    company,
			CreatedAt:  req.CreatedAt,
			IsOverdue:  req.IsOverdue(now),
		})
	}
	return recent, nil
}

func (s *DashboardService) userName(ctx context.Context, id string, names map[string]string) string {
	if id == "" {
		return ""
	}
	if name, ok := names[id]; ok {
		return name
	}
	name := ""
	if user, err := s.userRepo.GetUser(ctx, id); err == nil {
		name = user.Name
	}
	names[id] = name
	return name
}

// RequestsPerTeam counts the actor's visible requests per team
func (s *DashboardService) RequestsPerTeam(ctx context.Context, actor models.Actor) ([]*models.TeamRequestCount, error) {
	requests, err := scopedRequests(ctx, s.requestRepo, actor, models.RequestFilter{})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, req := range requests {
		counts[req.TeamID]++
	}

	result := make([]*models.TeamRequestCount, 0, len(counts))
	for teamID, count := range counts {
		name := teamID
		if team, err := s.teamRepo.GetTeam(ctx, teamID); err == nil {
			name = team.Name
		} else {
			s.logger.Warnf("Team %s referenced by requests could not be loaded: %v", teamID, err)
		}
		result = append(result, &models.TeamRequestCount{TeamID: teamID, TeamName: name, Count: count})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count == result[j].Count {
			return result[i].TeamName < result[j].TeamName
		}
		return result[i].Count > result[j].Count
	})
	return result, nil
}
