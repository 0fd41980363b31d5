package postgres

import (
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table in dependency order.
var Models = []interface{}{
	&domain.Role{},
	&domain.AppRole{},
	&domain.User{},
	&domain.UserSession{},
	&domain.Champion{},
	&domain.Item{},
	&domain.Rune{},
	&domain.SummonerSpell{},
	&domain.Matchup{},
	&domain.MatchupTip{},
}

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:          NewUserRepository(db),
		Session:       NewSessionRepository(db),
		Champion:      NewChampionRepository(db),
		Role:          NewRoleRepository(db),
		Item:          NewItemRepository(db),
		Rune:          NewRuneRepository(db),
		SummonerSpell: NewSummonerSpellRepository(db),
		Matchup:       NewMatchupRepository(db),
		Tip:           NewTipRepository(db),
	}
}
