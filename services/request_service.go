package services

import (
	"context"
	"fmt"
	"maintrack-backend/apperror"
	"maintrack-backend/authz"
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/utils/logger"
	"strings"
	"time"
)

// Clock returns the current time. Tests replace it to pin timestamps.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// mirroredEquipmentStatus is what updateRequestStatus writes onto the
// equipment record for each target stage
var mirroredEquipmentStatus = map[models.Stage]models.EquipmentStatus{
	models.StageInProgress: models.EquipmentRepairing,
	models.StageRepaired:   models.EquipmentActive,
	models.StageScrap:      models.EquipmentScrap,
}

// RequestService owns the request state machine and the writes that couple
// a request to its equipment.
type RequestService struct {
	requestRepo   repository.RequestRepositoryInterface
	equipmentRepo repository.EquipmentRepositoryInterface
	userRepo      repository.UserRepositoryInterface
	teamRepo      repository.TeamRepositoryInterface
	catalogRepo   repository.CatalogRepositoryInterface
	tx            repository.TransactionManagerInterface
	deriver       *StatusDeriver
	logger        logger.Logger
	now           Clock
}

func NewRequestService(repos repository.RepositoryContainerInterface, deriver *StatusDeriver, log logger.Logger) *RequestService {
	return &RequestService{
		requestRepo:   repos.GetRequestRepository(),
		equipmentRepo: repos.GetEquipmentRepository(),
		userRepo:      repos.GetUserRepository(),
		teamRepo:      repos.GetTeamRepository(),
		catalogRepo:   repos.GetCatalogRepository(),
		tx:            repos.GetTransactionManager(),
		deriver:       deriver,
		logger:        log,
		now:           systemClock,
	}
}

// WithClock replaces the time source
func (s *RequestService) WithClock(clock Clock) *RequestService {
	s.now = clock
	return s
}

func (s *RequestService) log(actor models.Actor, req *models.MaintenanceRequest) logger.Logger {
	return s.logger.WithFields(map[string]interface{}{
		"request_id": req.ID,
		"stage":      req.Stage,
		"actor_id":   actor.ID,
		"actor_role": actor.Role,
	})
}

// Create validates the target and opens a NEW request on behalf of the actor
func (s *RequestService) Create(ctx context.Context, actor models.Actor, cmd *models.CreateRequestCommand) (*models.MaintenanceRequest, error) {
	if err := validateCreate(cmd); err != nil {
		return nil, err
	}

	req := &models.MaintenanceRequest{
		Type:           cmd.Type,
		Subject:        strings.TrimSpace(cmd.Subject),
		Description:    cmd.Description,
		MaintenanceFor: cmd.MaintenanceFor,
		TeamID:         cmd.TeamID,
		Stage:          models.StageNew,
		ScheduledDate:  cmd.ScheduledDate,
		CreatedBy:      actor.ID,
	}

	switch cmd.MaintenanceFor {
	case models.ForEquipment:
		equipment, err := s.equipmentRepo.GetEquipment(ctx, cmd.EquipmentID)
		if err != nil {
			return nil, err
		}
		status, err := s.deriver.Status(ctx, equipment.ID)
		if err != nil {
			return nil, err
		}
		if status == models.EquipmentScrap {
			return nil, apperror.Validation("equipment %s is scrapped and cannot receive new requests", equipment.ID)
		}
		snapshot, err := s.categoryName(ctx, equipment.CategoryID)
		if err != nil {
			return nil, err
		}
		req.EquipmentID = equipment.ID
		req.CategorySnapshot = snapshot
		if req.TeamID == "" {
			req.TeamID = equipment.TeamID
		}
		if req.TeamID == "" {
			return nil, apperror.Validation("equipment %s has no default maintenance team; a team is required", equipment.ID)
		}

	case models.ForWorkCenter:
		workCenter, err := s.catalogRepo.GetWorkCenter(ctx, cmd.WorkCenterID)
		if err != nil {
			return nil, err
		}
		if req.TeamID == "" {
			return nil, apperror.Validation("a maintenance team is required for work center requests")
		}
		req.WorkCenterID = workCenter.ID
		req.CategorySnapshot = workCenter.Name
	}

	team, err := s.teamRepo.GetTeam(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}

	if cmd.TechnicianID != "" {
		if err := s.checkAssigner(actor, team.ID, cmd.TechnicianID); err != nil {
			return nil, err
		}
		if _, err := s.technicianInTeam(ctx, cmd.TechnicianID, team); err != nil {
			return nil, err
		}
		req.TechnicianID = cmd.TechnicianID
	}

	now := s.now()
	req.CreatedAt = now
	req.UpdatedAt = now

	created, err := s.requestRepo.CreateRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log(actor, created).Infof("Maintenance request created for team %s", created.TeamID)
	return created, nil
}

func validateCreate(cmd *models.CreateRequestCommand) error {
	if cmd == nil {
		return apperror.Validation("request payload is required")
	}
	if !cmd.Type.Valid() {
		return apperror.Validation("type must be CORRECTIVE or PREVENTIVE")
	}
	if strings.TrimSpace(cmd.Subject) == "" {
		return apperror.Validation("subject is required")
	}
	if cmd.Type == models.RequestPreventive && cmd.ScheduledDate == nil {
		return apperror.Validation("preventive requests require a scheduled date")
	}
	if cmd.Type == models.RequestCorrective && cmd.ScheduledDate != nil {
		return apperror.Validation("corrective requests cannot carry a scheduled date")
	}

	switch cmd.MaintenanceFor {
	case models.ForEquipment:
		if cmd.EquipmentID == "" || cmd.WorkCenterID != "" {
			return apperror.Validation("equipment requests need an equipment id and no work center id")
		}
	case models.ForWorkCenter:
		if cmd.WorkCenterID == "" || cmd.EquipmentID != "" {
			return apperror.Validation("work center requests need a work center id and no equipment id")
		}
	default:
		return apperror.Validation("maintenanceFor must be EQUIPMENT or WORK_CENTER")
	}
	return nil
}

func (s *RequestService) categoryName(ctx context.Context, categoryID string) (string, error) {
	if categoryID == "" {
		return "", nil
	}
	category, err := s.catalogRepo.GetCategory(ctx, categoryID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			s.logger.Warnf("Category %s referenced by equipment no longer exists", categoryID)
			return "", nil
		}
		return "", err
	}
	return category.Name, nil
}

// Get returns one request if the actor may see it
func (s *RequestService) Get(ctx context.Context, actor models.Actor, id string) (*models.MaintenanceRequest, error) {
	req, err := s.requestRepo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ChangeStage moves a request along the lifecycle. Moving into SCRAP runs
// the scrap cascade.
func (s *RequestService) ChangeStage(ctx context.Context, actor models.Actor, id string, cmd *models.ChangeStageCommand) (*models.MaintenanceRequest, error) {
	if cmd == nil || !cmd.Stage.Valid() {
		return nil, apperror.Validation("a valid target stage is required")
	}
	if cmd.DurationHours != nil && *cmd.DurationHours < 0 {
		return nil, apperror.Validation("duration cannot be negative")
	}

	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(req.Stage, cmd.Stage) {
		return nil, apperror.InvalidTransition(req.ID, string(req.Stage), string(cmd.Stage))
	}

	if cmd.Stage == models.StageScrap {
		return s.scrap(ctx, actor, req)
	}

	from := req.Stage
	s.applyTransition(req, cmd.Stage, cmd.DurationHours)
	if err := s.requestRepo.UpdateRequest(ctx, req); err != nil {
		return nil, err
	}
	s.log(actor, req).Infof("Stage changed from %s", from)
	return req, nil
}

// applyTransition sets the stage and its bookkeeping. The caller has
// already checked the transition table.
func (s *RequestService) applyTransition(req *models.MaintenanceRequest, to models.Stage, duration *float64) {
	now := s.now()
	if to == models.StageInProgress && req.InProgressAt == nil {
		stamp := now
		req.InProgressAt = &stamp
	}
	if req.Stage == models.StageInProgress && to == models.StageRepaired {
		hours := resolveDuration(req, duration, now)
		req.DurationHours = &hours
	}
	req.Stage = to
	req.UpdatedAt = now
}

// Assign sets the technician of a request
func (s *RequestService) Assign(ctx context.Context, actor models.Actor, id string, technicianID string) (*models.MaintenanceRequest, error) {
	if technicianID == "" {
		return nil, apperror.Validation("technicianId is required")
	}

	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Stage.Terminal() {
		return nil, apperror.Validation("request %s is %s and can no longer be assigned", req.ID, req.Stage)
	}
	if err := s.checkAssigner(actor, req.TeamID, technicianID); err != nil {
		return nil, err
	}

	technician, err := s.userRepo.GetUser(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	if technician.Role != models.RoleTechnician {
		return nil, apperror.Validation("user %s is a %s, not a technician", technician.ID, technician.Role)
	}

	req.TechnicianID = technician.ID
	req.UpdatedAt = s.now()
	if err := s.requestRepo.UpdateRequest(ctx, req); err != nil {
		return nil, err
	}
	s.log(actor, req).Infof("Technician %s assigned", technician.ID)
	return req, nil
}

// checkAssigner enforces who may put which technician on a team's request
func (s *RequestService) checkAssigner(actor models.Actor, teamID, technicianID string) error {
	switch actor.Role {
	case models.RoleManager:
		return nil
	case models.RoleTechnician:
		if technicianID != actor.ID {
			return apperror.Forbidden(string(actor.Role), "technicians can only assign themselves")
		}
		if !actor.InTeam(teamID) {
			return apperror.Forbidden(string(actor.Role), "technician %s is not a member of team %s", actor.ID, teamID)
		}
		return nil
	}
	return apperror.Forbidden(string(actor.Role), "role %s may not assign technicians", actor.Role)
}

// Complete finishes an IN_PROGRESS request
func (s *RequestService) Complete(ctx context.Context, actor models.Actor, id string, durationHours *float64) (*models.MaintenanceRequest, error) {
	if durationHours != nil && *durationHours < 0 {
		return nil, apperror.Validation("duration cannot be negative")
	}

	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Stage != models.StageInProgress {
		return nil, apperror.InvalidTransition(req.ID, string(req.Stage), string(models.StageRepaired))
	}

	s.applyTransition(req, models.StageRepaired, durationHours)
	if err := s.requestRepo.UpdateRequest(ctx, req); err != nil {
		return nil, err
	}
	s.log(actor, req).Infof("Request completed in %.1f hours", *req.DurationHours)
	return req, nil
}

// Scrap retires an IN_PROGRESS request together with its equipment
func (s *RequestService) Scrap(ctx context.Context, actor models.Actor, id string) (*models.MaintenanceRequest, error) {
	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Stage != models.StageInProgress {
		return nil, apperror.InvalidTransition(req.ID, string(req.Stage), string(models.StageScrap))
	}
	return s.scrap(ctx, actor, req)
}

func (s *RequestService) scrap(ctx context.Context, actor models.Actor, req *models.MaintenanceRequest) (*models.MaintenanceRequest, error) {
	s.applyTransition(req, models.StageScrap, nil)

	err := s.commitWithEquipment(ctx, req, func(equipment *models.Equipment) {
		equipment.Status = models.EquipmentScrap
		equipment.AppendNote(req.UpdatedAt, actor.ID, scrapNote(req))
	})
	if err != nil {
		s.log(actor, req).Errorf("Scrap cascade failed: %v", err)
		return nil, err
	}

	s.log(actor, req).Infof("Request scrapped, equipment %q retired", req.EquipmentID)
	return req, nil
}

func scrapNote(req *models.MaintenanceRequest) string {
	return fmt.Sprintf("Scrapped via maintenance request %s on %s", req.ID, req.UpdatedAt.Format(time.RFC3339))
}

// commitWithEquipment writes the request and, when it targets equipment,
// the mutated equipment record in one transaction.
func (s *RequestService) commitWithEquipment(ctx context.Context, req *models.MaintenanceRequest, mutate func(*models.Equipment)) error {
	if req.EquipmentID == "" {
		return s.requestRepo.UpdateRequest(ctx, req)
	}

	equipment, err := s.equipmentRepo.GetEquipment(ctx, req.EquipmentID)
	if err != nil {
		return err
	}
	mutate(equipment)
	equipment.UpdatedAt = req.UpdatedAt

	ops := []models.WriteOp{
		s.requestRepo.PrepareUpdate(req),
		s.equipmentRepo.PrepareUpdate(equipment),
	}
	if err := s.tx.Commit(ctx, ops...); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return err
		}
		return &apperror.CascadeError{
			RequestID:   req.ID,
			EquipmentID: equipment.ID,
			Err:         err,
		}
	}
	return nil
}

// UpdateRequestStatus is the technician workflow transition. Only the
// assigned technician or a manager may use it, and the equipment record
// gets the mirrored status written in the same transaction.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, actor models.Actor, id string, stage models.Stage) (*models.MaintenanceRequest, error) {
	if !stage.Valid() {
		return nil, apperror.Validation("a valid target stage is required")
	}

	req, err := s.requestRepo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsManager() && (req.TechnicianID == "" || req.TechnicianID != actor.ID) {
		return nil, apperror.Forbidden(string(actor.Role), "only the assigned technician or a manager may update request %s", req.ID)
	}

	mirrored, ok := mirroredEquipmentStatus[stage]
	if !ok || !models.CanTransition(req.Stage, stage) {
		return nil, apperror.InvalidTransition(req.ID, string(req.Stage), string(stage))
	}

	from := req.Stage
	s.applyTransition(req, stage, nil)
	err = s.commitWithEquipment(ctx, req, func(equipment *models.Equipment) {
		equipment.Status = mirrored
		if stage == models.StageScrap {
			equipment.AppendNote(req.UpdatedAt, actor.ID, scrapNote(req))
		}
	})
	if err != nil {
		s.log(actor, req).Errorf("Status update from %s failed: %v", from, err)
		return nil, err
	}

	s.log(actor, req).Infof("Status updated from %s, equipment mirrored to %s", from, mirrored)
	return req, nil
}

// UpdateTeamAndTechnician reroutes an open request to another team and/or
// technician. The resulting technician must be a technician of the
// resulting team.
func (s *RequestService) UpdateTeamAndTechnician(ctx context.Context, actor models.Actor, id string, cmd *models.UpdateTeamCommand) (*models.MaintenanceRequest, error) {
	if cmd == nil || (cmd.TeamID == "" && cmd.TechnicianID == "") {
		return nil, apperror.Validation("teamId or technicianId is required")
	}

	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Stage.Terminal() {
		return nil, apperror.Validation("request %s is %s and can no longer be rerouted", req.ID, req.Stage)
	}

	teamID := req.TeamID
	if cmd.TeamID != "" && cmd.TeamID != req.TeamID {
		if err := authz.RequireManager(actor, "move requests between teams"); err != nil {
			return nil, err
		}
		teamID = cmd.TeamID
	}

	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	technicianID := cmd.TechnicianID
	if technicianID != "" {
		if err := s.checkAssigner(actor, team.ID, technicianID); err != nil {
			return nil, err
		}
	} else {
		technicianID = req.TechnicianID
	}

	if technicianID != "" {
		if _, err := s.technicianInTeam(ctx, technicianID, team); err != nil {
			if cmd.TechnicianID != "" || apperror.Is(err, apperror.KindInternal) {
				return nil, err
			}
			// the previous technician does not follow the request to a new team
			technicianID = ""
		}
	}

	req.TeamID = team.ID
	req.TechnicianID = technicianID
	req.UpdatedAt = s.now()
	if err := s.requestRepo.UpdateRequest(ctx, req); err != nil {
		return nil, err
	}
	s.log(actor, req).Infof("Request routed to team %s, technician %q", team.ID, technicianID)
	return req, nil
}

func (s *RequestService) technicianInTeam(ctx context.Context, technicianID string, team *models.MaintenanceTeam) (*models.User, error) {
	technician, err := s.userRepo.GetUser(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	if technician.Role != models.RoleTechnician {
		return nil, apperror.Validation("user %s is a %s, not a technician", technician.ID, technician.Role)
	}
	if !team.HasMember(technician.ID) && !technician.InTeam(team.ID) {
		return nil, apperror.Validation("technician %s is not a member of team %s", technician.ID, team.Name)
	}
	return technician, nil
}
