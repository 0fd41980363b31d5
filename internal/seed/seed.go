// Package seed loads the static reference data shipped with the service.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ImageVersion is the Data Dragon version seeded image URLs point at.
const ImageVersion = "14.1.1"

const imageBaseURL = "https://ddragon.leagueoflegends.com/cdn/" + ImageVersion + "/img"

//go:embed seed.yaml
var seedYAML []byte

type Data struct {
	Roles            []RoleSeed          `yaml:"roles"`
	SummonerSpells   []SummonerSpellSeed `yaml:"summonerSpells"`
	StarterChampions []ChampionSeed      `yaml:"starterChampions"`
}

type RoleSeed struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type SummonerSpellSeed struct {
	ID          int    `yaml:"id"`
	RiotSpellID int    `yaml:"riotSpellId"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Cooldown    int    `yaml:"cooldown"`
}

type ChampionSeed struct {
	RiotChampionID string `yaml:"riotChampionId"`
	Name           string `yaml:"name"`
	Title          string `yaml:"title"`
	Image          string `yaml:"image"`
	RoleID         int    `yaml:"roleId"`
}

// Load parses the embedded seed file.
func Load() (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

func (d *Data) RoleModels() []*domain.Role {
	roles := make([]*domain.Role, 0, len(d.Roles))
	for _, r := range d.Roles {
		roles = append(roles, &domain.Role{ID: r.ID, Name: r.Name, Description: r.Description})
	}
	return roles
}

func (d *Data) SummonerSpellModels() []*domain.SummonerSpell {
	spells := make([]*domain.SummonerSpell, 0, len(d.SummonerSpells))
	for _, s := range d.SummonerSpells {
		spells = append(spells, &domain.SummonerSpell{
			ID:          s.ID,
			RiotSpellID: s.RiotSpellID,
			Name:        s.Name,
			Description: s.Description,
			ImageURL:    imageBaseURL + "/spell/" + s.Image,
			Cooldown:    s.Cooldown,
		})
	}
	return spells
}

func (d *Data) ChampionModels() []*domain.Champion {
	champions := make([]*domain.Champion, 0, len(d.StarterChampions))
	for _, c := range d.StarterChampions {
		champion := &domain.Champion{
			RiotChampionID: c.RiotChampionID,
			Name:           c.Name,
			Title:          c.Title,
			ImageURL:       imageBaseURL + "/champion/" + c.Image,
		}
		if c.RoleID != 0 {
			roleID := c.RoleID
			champion.PrimaryRoleID = &roleID
		}
		champions = append(champions, champion)
	}
	return champions
}

// Apply inserts roles and summoner spells. Existing rows are left alone, so
// it is safe on every startup.
func Apply(ctx context.Context, repos *repository.Repositories, data *Data) error {
	if err := repos.Role.Seed(ctx, data.RoleModels()); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := repos.SummonerSpell.Seed(ctx, data.SummonerSpellModels()); err != nil {
		return fmt.Errorf("seed summoner spells: %w", err)
	}
	log.WithFields(log.Fields{
		"roles":          len(data.Roles),
		"summonerSpells": len(data.SummonerSpells),
	}).Info("[seed.Apply] reference data ensured")
	return nil
}

// SeedStarterChampions inserts the starter champions when the champion
// table is empty. It reports whether anything was inserted.
func SeedStarterChampions(ctx context.Context, champions repository.ChampionRepository, data *Data) (bool, error) {
	count, err := champions.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := champions.InsertMissing(ctx, data.ChampionModels()); err != nil {
		return false, fmt.Errorf("seed starter champions: %w", err)
	}
	log.WithField("count", len(data.StarterChampions)).Info("[seed.SeedStarterChampions] champion table was empty, inserted starter champions")
	return true, nil
}
