// Package storage is the gorm-backed durable store of spec.md §6.4:
// one *gorm.DB, AutoMigrate at startup, one struct per relational
// table. Grounded on services/gormbe/{db,games_service,genid}.go's
// shape — a thin struct wrapping *gorm.DB plus one DAL-ish method set
// per entity — reimplemented over the spec's own table layout instead
// of the teacher's generated v1gorm structs (dropped along with the
// rest of the Connect/gRPC-gateway generated stack, see DESIGN.md).
package storage

import "time"

type UserGORM struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex"`
	PasswordHash string
	CreatedAt    time.Time
}

func (UserGORM) TableName() string { return "users" }

type GameGORM struct {
	ID                  string `gorm:"primaryKey"`
	Name                string
	HostID              string `gorm:"index"`
	Status              string
	MaxPlayers          int
	MapWidth            int
	MapHeight           int
	Ruleset             string
	CurrentTurn         int
	TurnTimeLimit       int
	Seed                string
	Generator           string
	TerrainSettingsJSON string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (GameGORM) TableName() string { return "games" }

type PlayerGORM struct {
	ID           string `gorm:"primaryKey"`
	GameID       string `gorm:"index"`
	UserID       string `gorm:"index"`
	PlayerNumber int
	Nation       string
	Civilization string
	Color        string
	Gold         int
	Science      int
	Culture      int
	HasEndedTurn bool
	IsConnected  bool
}

func (PlayerGORM) TableName() string { return "players" }

type CityGORM struct {
	ID                string `gorm:"primaryKey"`
	GameID            string `gorm:"index"`
	PlayerID          string `gorm:"index"`
	Name              string
	X, Y              int
	Population        int
	Food              int
	FoodPerTurn       int
	Production        int
	ProductionPerTurn int
	CurrentProduction string
	BuildingsJSON     string
	WorkedTilesJSON   string
	IsCapital         bool
	FoundedTurn       int
}

func (CityGORM) TableName() string { return "cities" }

// UnitGORM stores MovementPoints/MaxMovementPoints as a decimal string
// for forward compatibility, per spec.md §6.4: "load must parse and
// clamp."
type UnitGORM struct {
	ID                string `gorm:"primaryKey"`
	GameID            string `gorm:"index"`
	PlayerID          string `gorm:"index"`
	UnitType          string
	X, Y              int
	Health            int
	MovementPoints    string
	MaxMovementPoints string
	VeteranLevel      int
	IsFortified       bool
	CreatedTurn       int
}

func (UnitGORM) TableName() string { return "units" }

type PlayerTechGORM struct {
	PlayerID      string `gorm:"primaryKey"`
	TechID        string `gorm:"primaryKey"`
	CompletedTurn int
}

func (PlayerTechGORM) TableName() string { return "player_techs" }

type ResearchGORM struct {
	PlayerID         string `gorm:"primaryKey"`
	CurrentTech      string
	BulbsAccumulated int
}

func (ResearchGORM) TableName() string { return "research" }

type GameTurnGORM struct {
	ID          string `gorm:"primaryKey"`
	GameID      string `gorm:"index"`
	TurnNumber  int
	CompletedAt time.Time
	ActionsLog  string
}

func (GameTurnGORM) TableName() string { return "game_turns" }

type MapTileGORM struct {
	GameID      string `gorm:"primaryKey"`
	X           int    `gorm:"primaryKey"`
	Y           int    `gorm:"primaryKey"`
	Terrain     string
	Elevation   int
	Resource    string
	RiverMask   int
	ContinentID int
}

func (MapTileGORM) TableName() string { return "map_tiles" }

// AllModels lists every table for AutoMigrate, in the order
// services/gormbe/games_service.go registers its own GORM models.
func AllModels() []interface{} {
	return []interface{}{
		&UserGORM{},
		&GameGORM{},
		&PlayerGORM{},
		&CityGORM{},
		&UnitGORM{},
		&PlayerTechGORM{},
		&ResearchGORM{},
		&GameTurnGORM{},
		&MapTileGORM{},
	}
}
