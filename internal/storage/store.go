package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/turnforge/atlascore/internal/errs"
)

const instrumentationName = "github.com/turnforge/atlascore/internal/storage"

var (
	Tracer = otel.Tracer(instrumentationName)
	Meter  = otel.Meter(instrumentationName)
	Logger = otelslog.NewLogger(instrumentationName)
)

// Store is the single *gorm.DB source of truth described in spec.md
// §5: "the durable store is the single source of truth; in-memory
// state is a cache rehydrated by load_game."
type Store struct {
	DB *gorm.DB
}

// Open connects to Postgres and runs AutoMigrate, mirroring
// services/gormbe/db.go's OpenDB.
func Open(dsn string) (*Store, error) {
	Logger.Info("connecting to database")
	if !strings.HasPrefix(dsn, "postgres://") {
		return nil, errs.New(errs.PersistenceFailed, fmt.Sprintf("unsupported DSN scheme: %q", dsn))
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		Logger.Error("failed to connect to database", "error", err)
		return nil, errs.Wrap(errs.PersistenceFailed, "open database", err)
	}
	if err := db.AutoMigrate(AllModels()...); err != nil {
		Logger.Error("automigrate failed", "error", err)
		return nil, errs.Wrap(errs.PersistenceFailed, "automigrate", err)
	}
	Logger.Info("database ready")
	return &Store{DB: db}, nil
}

// FormatMovement renders an integer fragment count as the decimal
// string spec.md §6.4 requires for forward compatibility.
func FormatMovement(v int) string { return strconv.Itoa(v) }

// ParseMovement parses a persisted movement value, clamping corrupted
// input into [0, max], per spec.md §4.5's load_units contract.
func ParseMovement(raw string, max int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func (s *Store) SaveGame(ctx context.Context, g *GameGORM) error {
	ctx, span := Tracer.Start(ctx, "SaveGame")
	defer span.End()
	if err := s.DB.WithContext(ctx).Save(g).Error; err != nil {
		return errs.Wrap(errs.PersistenceFailed, "save game", err)
	}
	return nil
}

func (s *Store) GetGame(ctx context.Context, id string) (*GameGORM, error) {
	ctx, span := Tracer.Start(ctx, "GetGame")
	defer span.End()
	var g GameGORM
	if err := s.DB.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, errs.New(errs.UnknownId, fmt.Sprintf("unknown game %q", id))
	}
	return &g, nil
}

func (s *Store) ListGames(ctx context.Context) ([]GameGORM, error) {
	ctx, span := Tracer.Start(ctx, "ListGames")
	defer span.End()
	var out []GameGORM
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, errs.Wrap(errs.PersistenceFailed, "list games", err)
	}
	return out, nil
}

func (s *Store) DeleteGame(ctx context.Context, id string) error {
	ctx, span := Tracer.Start(ctx, "DeleteGame")
	defer span.End()
	tx := s.DB.WithContext(ctx).Begin()
	for _, model := range []interface{}{&PlayerGORM{}, &CityGORM{}, &UnitGORM{}, &GameTurnGORM{}, &MapTileGORM{}} {
		if err := tx.Where("game_id = ?", id).Delete(model).Error; err != nil {
			tx.Rollback()
			return errs.Wrap(errs.PersistenceFailed, "delete game children", err)
		}
	}
	if err := tx.Delete(&GameGORM{}, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return errs.Wrap(errs.PersistenceFailed, "delete game", err)
	}
	if err := tx.Commit().Error; err != nil {
		return errs.Wrap(errs.PersistenceFailed, "commit delete", err)
	}
	return nil
}

func (s *Store) SavePlayers(ctx context.Context, players []PlayerGORM) error {
	if len(players) == 0 {
		return nil
	}
	ctx, span := Tracer.Start(ctx, "SavePlayers")
	defer span.End()
	if err := s.DB.WithContext(ctx).Save(&players).Error; err != nil {
		return errs.Wrap(errs.PersistenceFailed, "save players", err)
	}
	return nil
}

func (s *Store) ListPlayers(ctx context.Context, gameID string) ([]PlayerGORM, error) {
	var out []PlayerGORM
	if err := s.DB.WithContext(ctx).Where("game_id = ?", gameID).Order("player_number").Find(&out).Error; err != nil {
		return nil, errs.Wrap(errs.PersistenceFailed, "list players", err)
	}
	return out, nil
}

func (s *Store) SaveCities(ctx context.Context, cities []CityGORM) error {
	if len(cities) == 0 {
		return nil
	}
	if err := s.DB.WithContext(ctx).Save(&cities).Error; err != nil {
		return errs.Wrap(errs.PersistenceFailed, "save cities", err)
	}
	return nil
}

func (s *Store) ListCities(ctx context.Context, gameID string) ([]CityGORM, error) {
	var out []CityGORM
	if err := s.DB.WithContext(ctx).Where("game_id = ?", gameID).Order("id").Find(&out).Error; err != nil {
		return nil, errs.Wrap(errs.PersistenceFailed, "list cities", err)
	}
	return out, nil
}

func (s *Store) SaveUnits(ctx context.Context, units []UnitGORM) error {
	if len(units) == 0 {
		return nil
	}
	if err := s.DB.WithContext(ctx).Save(&units).Error; err != nil {
		return errs.Wrap(errs.PersistenceFailed, "save units", err)
	}
	return nil
}

func (s *Store) ListUnits(ctx context.Context, gameID string) ([]UnitGORM, error) {
	var out []UnitGORM
	if err := s.DB.WithContext(ctx).Where("game_id = ?", gameID).Order("id").Find(&out).Error; err != nil {
		return nil, errs.Wrap(errs.PersistenceFailed, "list units", err)
	}
	return out, nil
}

func (s *Store) SaveResearch(ctx context.Context, rows []ResearchGORM) error {
	if len(rows) == 0 {
		return nil
	}
	if err := s.DB.WithContext(ctx).Save(&rows).Error; err != nil {
		return errs.Wrap(errs.PersistenceFailed, "save research", err)
	}
	return nil
}

func (s *Store) SavePlayerTechs(ctx context.Context, rows []PlayerTechGORM) error {
	if len(rows) == 0 {
		return nil
	}
	if err := s.DB.WithContext(ctx).Save(&rows).Error; err != nil {
		return errs.Wrap(errs.PersistenceFailed, "save player techs", err)
	}
	return nil
}

func (s *Store) ListPlayerTechs(ctx context.Context, playerID string) ([]PlayerTechGORM, error) {
	var out []PlayerTechGORM
	if err := s.DB.WithContext(ctx).Where("player_id = ?", playerID).Find(&out).Error; err != nil {
		return nil, errs.Wrap(errs.PersistenceFailed, "list player techs", err)
	}
	return out, nil
}

func (s *Store) ListResearch(ctx context.Context, gameID string) ([]ResearchGORM, error) {
	var out []ResearchGORM
	if err := s.DB.WithContext(ctx).
		Joins("JOIN players ON players.id = research.player_id").
		Where("players.game_id = ?", gameID).
		Find(&out).Error; err != nil {
		return nil, errs.Wrap(errs.PersistenceFailed, "list research", err)
	}
	return out, nil
}

func (s *Store) SaveMapTiles(ctx context.Context, tiles []MapTileGORM) error {
	if len(tiles) == 0 {
		return nil
	}
	const batchSize = 500
	for i := 0; i < len(tiles); i += batchSize {
		end := i + batchSize
		if end > len(tiles) {
			end = len(tiles)
		}
		if err := s.DB.WithContext(ctx).Save(tiles[i:end]).Error; err != nil {
			return errs.Wrap(errs.PersistenceFailed, "save map tiles", err)
		}
	}
	return nil
}

func (s *Store) ListMapTiles(ctx context.Context, gameID string) ([]MapTileGORM, error) {
	var out []MapTileGORM
	if err := s.DB.WithContext(ctx).Where("game_id = ?", gameID).Find(&out).Error; err != nil {
		return nil, errs.Wrap(errs.PersistenceFailed, "list map tiles", err)
	}
	return out, nil
}

func (s *Store) AppendGameTurn(ctx context.Context, row *GameTurnGORM) error {
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return errs.Wrap(errs.PersistenceFailed, "append game turn", err)
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*UserGORM, error) {
	var u UserGORM
	if err := s.DB.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, errs.New(errs.UnknownId, fmt.Sprintf("unknown user %q", username))
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *UserGORM) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return errs.Wrap(errs.PersistenceFailed, "create user", err)
	}
	return nil
}
