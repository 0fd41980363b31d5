package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MatchupNotifier is told about committed matchup writes. The websocket
// hub implements it.
type MatchupNotifier interface {
	MatchupChanged(matchup *MatchupView)
	TipAdded(matchupID int, tip TipView)
	MatchupDeleted(matchupID int)
}

type nopNotifier struct{}

func (nopNotifier) MatchupChanged(*MatchupView) {}
func (nopNotifier) TipAdded(int, TipView)       {}
func (nopNotifier) MatchupDeleted(int)          {}

type MatchupService struct {
	matchupRepo  repository.MatchupRepository
	tipRepo      repository.TipRepository
	championRepo repository.ChampionRepository
	roleRepo     repository.RoleRepository
	notifier     MatchupNotifier
}

func NewMatchupService(
	matchupRepo repository.MatchupRepository,
	tipRepo repository.TipRepository,
	championRepo repository.ChampionRepository,
	roleRepo repository.RoleRepository,
) *MatchupService {
	return &MatchupService{
		matchupRepo:  matchupRepo,
		tipRepo:      tipRepo,
		championRepo: championRepo,
		roleRepo:     roleRepo,
		notifier:     nopNotifier{},
	}
}

// SetNotifier replaces the write notifier. Passing nil disables
// notifications.
func (s *MatchupService) SetNotifier(n MatchupNotifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

type CreateMatchupInput struct {
	PlayerChampionID int
	EnemyChampionID  int
	RoleID           int
	Difficulty       domain.Difficulty
	GeneralAdvice    *string
}

// UpdateMatchupInput replaces every editable field of a matchup.
type UpdateMatchupInput struct {
	Difficulty domain.Difficulty
	Guide      domain.MatchupGuide
}

type AddTipInput struct {
	MatchupID  int
	Category   domain.TipCategory
	Content    string
	Priority   int
	AuthorName *string
}

func (s *MatchupService) GetAll(ctx context.Context) ([]*MatchupView, error) {
	matchups, err := s.matchupRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return newMatchupViews(matchups), nil
}

func (s *MatchupService) GetByID(ctx context.Context, id int) (*MatchupView, error) {
	matchup, err := s.matchupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return newMatchupView(matchup), nil
}

// Search finds the matchup for an exact (player, enemy, role) triple.
func (s *MatchupService) Search(ctx context.Context, playerChampionID, enemyChampionID, roleID int) (*MatchupView, error) {
	matchup, err := s.matchupRepo.GetByTriple(ctx, playerChampionID, enemyChampionID, roleID)
	if err != nil {
		return nil, err
	}
	return newMatchupView(matchup), nil
}

func (s *MatchupService) GetByPlayerChampion(ctx context.Context, championID int) ([]*MatchupView, error) {
	matchups, err := s.matchupRepo.GetByPlayerChampion(ctx, championID)
	if err != nil {
		return nil, err
	}
	return newMatchupViews(matchups), nil
}

// CanEdit reports whether the user may update or delete the matchup.
func (s *MatchupService) CanEdit(ctx context.Context, id int, userID uuid.UUID, isAdmin bool) (bool, error) {
	matchup, err := s.matchupRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return matchup.CanBeEditedBy(userID, isAdmin), nil
}

func (s *MatchupService) checkReferences(ctx context.Context, playerChampionID, enemyChampionID, roleID int) error {
	for _, id := range []int{playerChampionID, enemyChampionID} {
		exists, err := s.championRepo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: id %d", domain.ErrChampionNotFound, id)
		}
	}

	exists, err := s.roleRepo.Exists(ctx, roleID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: id %d", domain.ErrRoleNotFound, roleID)
	}
	return nil
}

// Create inserts a new matchup. Both champions and the role must exist and
// the triple must be free.
func (s *MatchupService) Create(ctx context.Context, input CreateMatchupInput, creatorID *uuid.UUID) (*MatchupView, error) {
	if !input.Difficulty.IsValid() {
		return nil, domain.ErrInvalidDifficulty
	}
	if err := s.checkReferences(ctx, input.PlayerChampionID, input.EnemyChampionID, input.RoleID); err != nil {
		return nil, err
	}

	_, err := s.matchupRepo.GetByTriple(ctx, input.PlayerChampionID, input.EnemyChampionID, input.RoleID)
	if err == nil {
		return nil, domain.ErrMatchupExists
	}
	if !errors.Is(err, domain.ErrMatchupNotFound) {
		return nil, err
	}

	matchup := &domain.Matchup{
		PlayerChampionID: input.PlayerChampionID,
		EnemyChampionID:  input.EnemyChampionID,
		RoleID:           input.RoleID,
		Difficulty:       input.Difficulty,
		MatchupGuide:     domain.MatchupGuide{GeneralAdvice: input.GeneralAdvice},
		CreatedByID:      creatorID,
	}
	if err := s.matchupRepo.Create(ctx, matchup); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"matchupID": matchup.ID,
		"player":    matchup.PlayerChampionID,
		"enemy":     matchup.EnemyChampionID,
		"role":      matchup.RoleID,
	}).Info("[matchup.Create] matchup created")

	view, err := s.GetByID(ctx, matchup.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.MatchupChanged(view)
	return view, nil
}

// GetOrCreate returns the matchup for the triple, creating an empty Medium
// one when none exists. created reports which happened. A concurrent
// insert of the same triple resolves to the row that won.
func (s *MatchupService) GetOrCreate(ctx context.Context, playerChampionID, enemyChampionID, roleID int, creatorID *uuid.UUID) (view *MatchupView, created bool, err error) {
	existing, err := s.matchupRepo.GetByTriple(ctx, playerChampionID, enemyChampionID, roleID)
	if err == nil {
		return newMatchupView(existing), false, nil
	}
	if !errors.Is(err, domain.ErrMatchupNotFound) {
		return nil, false, err
	}

	view, err = s.Create(ctx, CreateMatchupInput{
		PlayerChampionID: playerChampionID,
		EnemyChampionID:  enemyChampionID,
		RoleID:           roleID,
		Difficulty:       domain.DifficultyMedium,
	}, creatorID)
	if errors.Is(err, domain.ErrMatchupExists) {
		view, err = s.Search(ctx, playerChampionID, enemyChampionID, roleID)
		return view, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return view, true, nil
}

// Update overwrites difficulty and the whole guide. Fields missing from
// the input are cleared.
func (s *MatchupService) Update(ctx context.Context, id int, input UpdateMatchupInput) (*MatchupView, error) {
	if !input.Difficulty.IsValid() {
		return nil, domain.ErrInvalidDifficulty
	}

	matchup, err := s.matchupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	matchup.Difficulty = input.Difficulty
	matchup.MatchupGuide = input.Guide
	if err := s.matchupRepo.Update(ctx, matchup); err != nil {
		return nil, err
	}

	view, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.MatchupChanged(view)
	return view, nil
}

// AddTip attaches a tip and returns the parent with its tips in display
// order. A zero priority means the default.
func (s *MatchupService) AddTip(ctx context.Context, input AddTipInput, authorID *uuid.UUID) (*MatchupView, error) {
	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidTipCategory
	}
	if input.Priority == 0 {
		input.Priority = domain.DefaultTipPriority
	}
	if input.Priority < domain.MinTipPriority || input.Priority > domain.MaxTipPriority {
		return nil, domain.ErrInvalidPriority
	}

	exists, err := s.matchupRepo.Exists(ctx, input.MatchupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrMatchupNotFound
	}

	tip := &domain.MatchupTip{
		MatchupID:  input.MatchupID,
		Category:   input.Category,
		Content:    input.Content,
		Priority:   input.Priority,
		AuthorName: input.AuthorName,
		AuthorID:   authorID,
	}
	if err := s.tipRepo.Create(ctx, tip); err != nil {
		return nil, err
	}

	view, err := s.GetByID(ctx, input.MatchupID)
	if err != nil {
		return nil, err
	}
	s.notifier.TipAdded(input.MatchupID, newTipView(tip))
	return view, nil
}

// Delete removes the matchup. Its tips go with it.
func (s *MatchupService) Delete(ctx context.Context, id int) error {
	if err := s.matchupRepo.Delete(ctx, id); err != nil {
		return err
	}
	log.WithField("matchupID", id).Info("[matchup.Delete] matchup deleted")
	s.notifier.MatchupDeleted(id)
	return nil
}
