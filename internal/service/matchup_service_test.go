package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository"
	"github.com/dom/matchup-companion/internal/repository/postgres"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/dom/matchup-companion/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	changed []int
	tips    []service.TipView
	deleted []int
}

func (n *recordingNotifier) MatchupChanged(m *service.MatchupView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, m.ID)
}

func (n *recordingNotifier) TipAdded(_ int, tip service.TipView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tips = append(n.tips, tip)
}

func (n *recordingNotifier) MatchupDeleted(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, id)
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func newMatchupService(t *testing.T) (*service.MatchupService, *recordingNotifier, *testutil.TestDB, *repository.Repositories) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewMatchupService(repos.Matchup, repos.Tip, repos.Champion, repos.Role)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	return svc, notifier, testDB, repos
}

func TestMatchupService_Create(t *testing.T) {
	svc, notifier, testDB, _ := newMatchupService(t)
	ctx := context.Background()

	player := testutil.NewChampionBuilder().WithName("Aatrox").Build(t, testDB.DB)
	enemy := testutil.NewChampionBuilder().WithName("Darius").Build(t, testDB.DB)
	creator := testutil.CreateUser(t, testDB.DB).ID

	tests := []struct {
		name    string
		input   service.CreateMatchupInput
		wantErr error
	}{
		{
			name:  "valid matchup",
			input: service.CreateMatchupInput{PlayerChampionID: player.ID, EnemyChampionID: enemy.ID, RoleID: domain.RoleTop, Difficulty: domain.DifficultyHard, GeneralAdvice: strPtr("Dodge the sweet spots")},
		},
		{
			name:    "same triple again",
			input:   service.CreateMatchupInput{PlayerChampionID: player.ID, EnemyChampionID: enemy.ID, RoleID: domain.RoleTop, Difficulty: domain.DifficultyEasy},
			wantErr: domain.ErrMatchupExists,
		},
		{
			name:    "unknown enemy",
			input:   service.CreateMatchupInput{PlayerChampionID: player.ID, EnemyChampionID: 99999, RoleID: domain.RoleTop, Difficulty: domain.DifficultyEasy},
			wantErr: domain.ErrChampionNotFound,
		},
		{
			name:    "unknown role",
			input:   service.CreateMatchupInput{PlayerChampionID: player.ID, EnemyChampionID: enemy.ID, RoleID: 42, Difficulty: domain.DifficultyEasy},
			wantErr: domain.ErrRoleNotFound,
		},
		{
			name:    "bad difficulty",
			input:   service.CreateMatchupInput{PlayerChampionID: player.ID, EnemyChampionID: enemy.ID, RoleID: domain.RoleMid, Difficulty: "Impossible"},
			wantErr: domain.ErrInvalidDifficulty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.Create(ctx, tt.input, &creator)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Aatrox", view.PlayerChampion.Name)
			assert.Equal(t, "Darius", view.EnemyChampion.Name)
			assert.Equal(t, "Top", view.Role.Name)
			assert.Equal(t, domain.DifficultyHard, view.Difficulty)
			require.NotNil(t, view.GeneralAdvice)
			assert.Equal(t, "Dodge the sweet spots", *view.GeneralAdvice)
			require.NotNil(t, view.CreatedByID)
			assert.Equal(t, creator, *view.CreatedByID)
			assert.Empty(t, view.Tips)
		})
	}

	assert.Len(t, notifier.changed, 1)
}

func TestMatchupService_GetOrCreate(t *testing.T) {
	svc, _, testDB, _ := newMatchupService(t)
	ctx := context.Background()

	player := testutil.NewChampionBuilder().Build(t, testDB.DB)
	enemy := testutil.NewChampionBuilder().Build(t, testDB.DB)

	first, created, err := svc.GetOrCreate(ctx, player.ID, enemy.ID, domain.RoleMid, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.DifficultyMedium, first.Difficulty)
	assert.Nil(t, first.CreatedByID)

	second, created, err := svc.GetOrCreate(ctx, player.ID, enemy.ID, domain.RoleMid, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = svc.GetOrCreate(ctx, player.ID, 424242, domain.RoleMid, nil)
	assert.ErrorIs(t, err, domain.ErrChampionNotFound)
}

func TestMatchupService_GetOrCreateConcurrent(t *testing.T) {
	svc, _, testDB, _ := newMatchupService(t)
	ctx := context.Background()

	player := testutil.NewChampionBuilder().Build(t, testDB.DB)
	enemy := testutil.NewChampionBuilder().Build(t, testDB.DB)

	const callers = 8
	ids := make([]int, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			view, _, err := svc.GetOrCreate(ctx, player.ID, enemy.ID, domain.RoleADC, nil)
			errs[i] = err
			if view != nil {
				ids[i] = view.ID
			}
		}()
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "every caller sees the same row")
	}
}

func TestMatchupService_Update(t *testing.T) {
	svc, notifier, testDB, _ := newMatchupService(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, testDB.DB).ID
	m := testutil.NewMatchupBuilder().WithCreator(owner).WithTip(domain.TipGeneral, "kept across updates", 2).Build(t, testDB.DB)
	_, err := svc.Update(ctx, m.ID, service.UpdateMatchupInput{
		Difficulty: domain.DifficultyEasy,
		Guide: domain.MatchupGuide{
			GeneralAdvice: strPtr("first pass"),
			KeystoneID:    intPtr(8010),
			CoreItems:     strPtr("3031,3072"),
		},
	})
	require.NoError(t, err)

	view, err := svc.Update(ctx, m.ID, service.UpdateMatchupInput{
		Difficulty: domain.DifficultyExtreme,
		Guide:      domain.MatchupGuide{Strategy: strPtr("Play for scaling")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyExtreme, view.Difficulty)
	assert.Nil(t, view.GeneralAdvice, "omitted fields are cleared")
	assert.Nil(t, view.KeystoneID)
	assert.Nil(t, view.CoreItems)
	require.NotNil(t, view.Strategy)
	assert.Len(t, view.Tips, 1)
	require.NotNil(t, view.CreatedByID)
	assert.Equal(t, owner, *view.CreatedByID, "creator never changes")

	_, err = svc.Update(ctx, m.ID, service.UpdateMatchupInput{Difficulty: "Trivial"})
	assert.ErrorIs(t, err, domain.ErrInvalidDifficulty)

	_, err = svc.Update(ctx, 987654, service.UpdateMatchupInput{Difficulty: domain.DifficultyEasy})
	assert.ErrorIs(t, err, domain.ErrMatchupNotFound)

	assert.Len(t, notifier.changed, 2)
}

func TestMatchupService_AddTip(t *testing.T) {
	svc, notifier, testDB, _ := newMatchupService(t)
	ctx := context.Background()
	m := testutil.NewMatchupBuilder().Build(t, testDB.DB)
	author := uuid.New()

	view, err := svc.AddTip(ctx, service.AddTipInput{MatchupID: m.ID, Category: domain.TipEarlyGame, Content: "Default priority tip"}, &author)
	require.NoError(t, err)
	require.Len(t, view.Tips, 1)
	assert.Equal(t, domain.DefaultTipPriority, view.Tips[0].Priority)

	view, err = svc.AddTip(ctx, service.AddTipInput{MatchupID: m.ID, Category: domain.TipItems, Content: "Most important tip", Priority: 1, AuthorName: strPtr("Coach")}, &author)
	require.NoError(t, err)
	require.Len(t, view.Tips, 2)
	assert.Equal(t, "Most important tip", view.Tips[0].Content, "lower priority value sorts first")

	tests := []struct {
		name    string
		input   service.AddTipInput
		wantErr error
	}{
		{"priority too high", service.AddTipInput{MatchupID: m.ID, Category: domain.TipGeneral, Content: "x", Priority: 11}, domain.ErrInvalidPriority},
		{"negative priority", service.AddTipInput{MatchupID: m.ID, Category: domain.TipGeneral, Content: "x", Priority: -1}, domain.ErrInvalidPriority},
		{"unknown category", service.AddTipInput{MatchupID: m.ID, Category: "Vision", Content: "x"}, domain.ErrInvalidTipCategory},
		{"missing matchup", service.AddTipInput{MatchupID: 555555, Category: domain.TipGeneral, Content: "x"}, domain.ErrMatchupNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddTip(ctx, tt.input, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Len(t, notifier.tips, 2)
}

func TestMatchupService_DeleteAndCanEdit(t *testing.T) {
	svc, notifier, testDB, _ := newMatchupService(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, testDB.DB).ID
	stranger := uuid.New()
	owned := testutil.NewMatchupBuilder().WithCreator(owner).WithTip(domain.TipGeneral, "goes away with its matchup", 5).Build(t, testDB.DB)
	orphan := testutil.NewMatchupBuilder().Build(t, testDB.DB)

	tests := []struct {
		name    string
		id      int
		userID  uuid.UUID
		isAdmin bool
		want    bool
	}{
		{"creator", owned.ID, owner, false, true},
		{"stranger", owned.ID, stranger, false, false},
		{"admin", owned.ID, stranger, true, true},
		{"no creator, regular user", orphan.ID, owner, false, false},
		{"no creator, admin", orphan.ID, owner, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CanEdit(ctx, tt.id, tt.userID, tt.isAdmin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := svc.CanEdit(ctx, 123123, owner, true)
	assert.ErrorIs(t, err, domain.ErrMatchupNotFound)

	require.NoError(t, svc.Delete(ctx, owned.ID))
	_, err = svc.GetByID(ctx, owned.ID)
	assert.ErrorIs(t, err, domain.ErrMatchupNotFound)

	var tips int64
	require.NoError(t, testDB.DB.Model(&domain.MatchupTip{}).Count(&tips).Error)
	assert.Zero(t, tips)

	assert.ErrorIs(t, svc.Delete(ctx, owned.ID), domain.ErrMatchupNotFound)
	assert.Equal(t, []int{owned.ID}, notifier.deleted)
}

func TestMatchupService_Queries(t *testing.T) {
	svc, _, testDB, _ := newMatchupService(t)
	ctx := context.Background()

	player := testutil.NewChampionBuilder().Build(t, testDB.DB)
	a := testutil.NewMatchupBuilder().WithChampions(player.ID, testutil.NewChampionBuilder().Build(t, testDB.DB).ID).Build(t, testDB.DB)
	testutil.NewMatchupBuilder().WithChampions(player.ID, testutil.NewChampionBuilder().Build(t, testDB.DB).ID).WithRole(domain.RoleTop).Build(t, testDB.DB)
	testutil.NewMatchupBuilder().Build(t, testDB.DB)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := svc.GetByPlayerChampion(ctx, player.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	found, err := svc.Search(ctx, player.ID, a.EnemyChampionID, domain.RoleMid)
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	_, err = svc.Search(ctx, a.EnemyChampionID, player.ID, domain.RoleMid)
	assert.ErrorIs(t, err, domain.ErrMatchupNotFound, "direction matters")
}
