package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/dom/matchup-companion/internal/ddragon"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/metrics"
	"github.com/dom/matchup-companion/internal/repository"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const (
	DefaultSyncLanguage = "en_US"

	// detailFetchLimit bounds the concurrent champion detail requests.
	detailFetchLimit = 8
)

// Sync kinds, also used as metric labels.
const (
	SyncKindChampions = "champions"
	SyncKindRunes     = "runes"
	SyncKindItems     = "items"
)

// SyncService pulls static game data from Data Dragon and upserts it by
// riot id. Each record is committed on its own.
type SyncService struct {
	client       *ddragon.Client
	versions     *ddragon.VersionCache
	championRepo repository.ChampionRepository
	runeRepo     repository.RuneRepository
	itemRepo     repository.ItemRepository
}

func NewSyncService(
	client *ddragon.Client,
	versions *ddragon.VersionCache,
	championRepo repository.ChampionRepository,
	runeRepo repository.RuneRepository,
	itemRepo repository.ItemRepository,
) *SyncService {
	return &SyncService{
		client:       client,
		versions:     versions,
		championRepo: championRepo,
		runeRepo:     runeRepo,
		itemRepo:     itemRepo,
	}
}

type SyncResult struct {
	Version   string `json:"version"`
	Language  string `json:"language"`
	Champions int    `json:"championsSynced"`
	Runes     int    `json:"runesSynced"`
	Items     int    `json:"itemsSynced"`
}

// Version resolves the current Data Dragon version. It never fails.
func (s *SyncService) Version(ctx context.Context) string {
	return s.versions.Current(ctx)
}

func languageOrDefault(language string) string {
	if language == "" {
		return DefaultSyncLanguage
	}
	return language
}

// SyncChampions creates missing champions and refreshes existing ones. It
// returns the number of champions created plus updated.
func (s *SyncService) SyncChampions(ctx context.Context, language string) (int, error) {
	language = languageOrDefault(language)
	version := s.versions.Current(ctx)

	summaries, err := s.client.Champions(ctx, version, language)
	if err != nil {
		metrics.SyncFailures.WithLabelValues(SyncKindChampions).Inc()
		return 0, fmt.Errorf("fetch champion index: %w", err)
	}

	details := s.fetchChampionDetails(ctx, version, language, summaries)

	created, updated := 0, 0
	for i, summary := range summaries {
		champion, err := s.championRepo.GetByRiotID(ctx, summary.Key)
		isNew := errors.Is(err, domain.ErrChampionNotFound)
		if err != nil && !isNew {
			metrics.SyncFailures.WithLabelValues(SyncKindChampions).Inc()
			return created + updated, fmt.Errorf("load champion %s: %w", summary.Key, err)
		}

		if isNew {
			champion = &domain.Champion{RiotChampionID: summary.Key}
			if len(summary.Tags) > 0 {
				champion.PrimaryRoleID = domain.RoleForTag(summary.Tags[0])
			}
		}
		champion.Name = summary.Name
		champion.Title = summary.Title
		champion.ImageURL = s.client.ChampionImageURL(version, summary.Image.Full)
		champion.Description = summary.Blurb
		// No detail document: keep whatever abilities are stored.
		if details[i] != nil {
			s.applyAbilities(champion, version, details[i])
		}

		if isNew {
			err = s.championRepo.Create(ctx, champion)
		} else {
			err = s.championRepo.Update(ctx, champion)
		}
		if err != nil {
			metrics.SyncFailures.WithLabelValues(SyncKindChampions).Inc()
			return created + updated, fmt.Errorf("save champion %s: %w", summary.Key, err)
		}

		if isNew {
			created++
		} else {
			updated++
		}
	}

	total := created + updated
	metrics.SyncRecords.WithLabelValues(SyncKindChampions).Add(float64(total))
	log.WithFields(log.Fields{
		"version":  version,
		"language": language,
		"created":  created,
		"updated":  updated,
	}).Info("[sync.SyncChampions] champions synced")
	return total, nil
}

// fetchChampionDetails loads every detail document with bounded
// concurrency. A failed fetch leaves a nil entry.
func (s *SyncService) fetchChampionDetails(ctx context.Context, version, language string, summaries []ddragon.ChampionSummary) []*ddragon.ChampionDetail {
	details := make([]*ddragon.ChampionDetail, len(summaries))

	var g errgroup.Group
	g.SetLimit(detailFetchLimit)
	for i, summary := range summaries {
		g.Go(func() error {
			detail, err := s.client.ChampionDetail(ctx, version, language, summary.ID)
			if err != nil {
				log.WithError(err).WithField("champion", summary.ID).Warn("[sync.SyncChampions] could not fetch abilities")
				return nil
			}
			details[i] = detail
			return nil
		})
	}
	_ = g.Wait()

	return details
}

func (s *SyncService) applyAbilities(champion *domain.Champion, version string, detail *ddragon.ChampionDetail) {
	for i, slot := range champion.Abilities() {
		if i >= len(detail.Spells) {
			*slot = domain.Ability{}
			continue
		}
		spell := detail.Spells[i]
		id, name := spell.ID, spell.Name
		icon := s.client.SpellImageURL(version, spell.Image.Full)
		*slot = domain.Ability{SpellID: &id, SpellName: &name, SpellIcon: &icon}
	}
}

// SyncRunes upserts every rune of every tree.
func (s *SyncService) SyncRunes(ctx context.Context, language string) (int, error) {
	language = languageOrDefault(language)
	version := s.versions.Current(ctx)

	trees, err := s.client.RuneTrees(ctx, version, language)
	if err != nil {
		metrics.SyncFailures.WithLabelValues(SyncKindRunes).Inc()
		return 0, fmt.Errorf("fetch rune trees: %w", err)
	}

	count := 0
	for _, r := range ddragon.FlattenRunes(trees) {
		entity := &domain.Rune{
			RiotRuneID:       r.ID,
			Key:              r.Key,
			Name:             r.Name,
			IconPath:         r.Icon,
			ShortDescription: r.ShortDesc,
			TreeID:           r.TreeID,
			TreeName:         r.TreeName,
			SlotIndex:        r.SlotIndex,
		}
		if err := s.runeRepo.Upsert(ctx, entity); err != nil {
			metrics.SyncFailures.WithLabelValues(SyncKindRunes).Inc()
			return count, fmt.Errorf("save rune %d: %w", r.ID, err)
		}
		count++
	}

	metrics.SyncRecords.WithLabelValues(SyncKindRunes).Add(float64(count))
	log.WithFields(log.Fields{
		"version":  version,
		"language": language,
		"count":    count,
	}).Info("[sync.SyncRunes] runes synced")
	return count, nil
}

// SyncItems upserts every item available on Summoner's Rift.
func (s *SyncService) SyncItems(ctx context.Context, language string) (int, error) {
	language = languageOrDefault(language)
	version := s.versions.Current(ctx)

	feed, err := s.client.Items(ctx, version, language)
	if err != nil {
		metrics.SyncFailures.WithLabelValues(SyncKindItems).Inc()
		return 0, fmt.Errorf("fetch items: %w", err)
	}

	keys := make([]string, 0, len(feed))
	for key := range feed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	count, skipped := 0, 0
	for _, key := range keys {
		data := feed[key]
		riotID, err := strconv.Atoi(key)
		if err != nil || !data.AvailableOnSummonersRift() {
			skipped++
			continue
		}

		item, err := newItem(riotID, data)
		if err != nil {
			return count, err
		}
		if err := s.itemRepo.Upsert(ctx, item); err != nil {
			metrics.SyncFailures.WithLabelValues(SyncKindItems).Inc()
			return count, fmt.Errorf("save item %d: %w", riotID, err)
		}
		count++
	}

	metrics.SyncRecords.WithLabelValues(SyncKindItems).Add(float64(count))
	log.WithFields(log.Fields{
		"version":  version,
		"language": language,
		"count":    count,
		"skipped":  skipped,
	}).Info("[sync.SyncItems] items synced")
	return count, nil
}

func newItem(riotID int, data ddragon.ItemData) (*domain.Item, error) {
	tags := data.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags of item %d: %w", riotID, err)
	}

	return &domain.Item{
		RiotItemID:    riotID,
		Name:          ddragon.StripMarkup(data.Name),
		Description:   data.Description,
		IconPath:      data.Image.Full,
		TotalGold:     data.Gold.Total,
		IsPurchasable: data.Gold.Purchasable,
		IsCompleted:   data.IsCompleted(),
		Tags:          datatypes.JSON(tagsJSON),
		BuildsFrom:    domain.JoinIDs(data.From),
		BuildsInto:    domain.JoinIDs(data.Into),
	}, nil
}

// SyncAll runs the champion, rune and item syncs in order and stops at
// the first failure. Earlier stages stay committed.
func (s *SyncService) SyncAll(ctx context.Context, language string) (*SyncResult, error) {
	language = languageOrDefault(language)
	result := &SyncResult{Version: s.versions.Current(ctx), Language: language}

	var err error
	if result.Champions, err = s.SyncChampions(ctx, language); err != nil {
		return result, err
	}
	if result.Runes, err = s.SyncRunes(ctx, language); err != nil {
		return result, err
	}
	if result.Items, err = s.SyncItems(ctx, language); err != nil {
		return result, err
	}
	return result, nil
}

// SyncEmpty syncs only the tables that have no rows yet. Failures are
// logged and skipped.
func (s *SyncService) SyncEmpty(ctx context.Context, language string) *SyncResult {
	language = languageOrDefault(language)
	result := &SyncResult{Version: s.versions.Current(ctx), Language: language}

	steps := []struct {
		kind  string
		count func(context.Context) (int64, error)
		sync  func(context.Context, string) (int, error)
		out   *int
	}{
		{SyncKindChampions, s.championRepo.Count, s.SyncChampions, &result.Champions},
		{SyncKindRunes, s.runeRepo.Count, s.SyncRunes, &result.Runes},
		{SyncKindItems, s.itemRepo.Count, s.SyncItems, &result.Items},
	}

	for _, step := range steps {
		logger := log.WithField("kind", step.kind)
		existing, err := step.count(ctx)
		if err != nil {
			logger.WithError(err).Error("[sync.SyncEmpty] could not count rows")
			continue
		}
		if existing > 0 {
			logger.WithField("rows", existing).Debug("[sync.SyncEmpty] table already populated")
			continue
		}
		n, err := step.sync(ctx, language)
		if err != nil {
			logger.WithError(err).Error("[sync.SyncEmpty] initial sync failed")
		}
		*step.out = n
	}
	return result
}
