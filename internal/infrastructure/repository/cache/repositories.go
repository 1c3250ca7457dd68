package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	basecache "github.com/riskibarqy/prediction-cup/internal/platform/cache"
)

const (
	seasonPointsPrefix = "cup:season_points:"
	winnersPrefix      = "cup:winners:"
	roundPrefix        = "season:round:"
)

// CupRepository caches season-wide reads. GetPoints always hits the next repository
// because conflict detection and integrity checks need the stored row.
type CupRepository struct {
	next       cup.Repository
	cache      *basecache.Store[any]
	freshReads bool
}

func NewCupRepository(next cup.Repository, cache *basecache.Store[any]) *CupRepository {
	return &CupRepository{next: next, cache: cache}
}

// NewInvalidatingCupRepository reads straight from next and only clears the shared
// cache on writes. Writers use it so cached readers over the same store see their rows.
func NewInvalidatingCupRepository(next cup.Repository, cache *basecache.Store[any]) *CupRepository {
	return &CupRepository{next: next, cache: cache, freshReads: true}
}

func (r *CupRepository) UpsertPointsBatch(ctx context.Context, records []cup.PointsRecord) error {
	err := r.next.UpsertPointsBatch(ctx, records)
	// A failed batch may still have written rows.
	seasons := make(map[int64]struct{}, 1)
	for _, record := range records {
		if _, seen := seasons[record.SeasonID]; seen {
			continue
		}
		seasons[record.SeasonID] = struct{}{}
		r.cache.Delete(seasonPointsPrefix + strconv.FormatInt(record.SeasonID, 10))
	}
	return err
}

func (r *CupRepository) GetPoints(ctx context.Context, userID string, bettingRoundID int64) (cup.PointsRecord, bool, error) {
	return r.next.GetPoints(ctx, userID, bettingRoundID)
}

func (r *CupRepository) ListSeasonPoints(ctx context.Context, seasonID int64) ([]cup.UserRoundPoints, error) {
	if r.freshReads {
		return r.next.ListSeasonPoints(ctx, seasonID)
	}
	v, err := r.cache.GetOrLoad(ctx, seasonPointsPrefix+strconv.FormatInt(seasonID, 10), func(ctx context.Context) (any, error) {
		items, err := r.next.ListSeasonPoints(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]cup.UserRoundPoints(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]cup.UserRoundPoints)
	return append([]cup.UserRoundPoints(nil), items...), nil
}

func (r *CupRepository) ListWinners(ctx context.Context, seasonID int64) ([]cup.WinnerRecord, error) {
	if r.freshReads {
		return r.next.ListWinners(ctx, seasonID)
	}
	v, err := r.cache.GetOrLoad(ctx, winnersPrefix+strconv.FormatInt(seasonID, 10), func(ctx context.Context) (any, error) {
		items, err := r.next.ListWinners(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]cup.WinnerRecord(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]cup.WinnerRecord)
	return append([]cup.WinnerRecord(nil), items...), nil
}

func (r *CupRepository) InsertWinners(ctx context.Context, winners []cup.WinnerRecord) error {
	err := r.next.InsertWinners(ctx, winners)
	for _, winner := range winners {
		r.cache.Delete(winnersPrefix + strconv.FormatInt(winner.SeasonID, 10))
	}
	return err
}

// errRoundMissing keeps misses out of the cache so a round created later is found.
var errRoundMissing = errors.New("betting round not found")

// SeasonRepository caches betting rounds only. Season rows carry the activation flag,
// which must be read fresh.
type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store[any]
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store[any]) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) GetCurrent(ctx context.Context) (season.Season, bool, error) {
	return r.next.GetCurrent(ctx)
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID int64) (season.Season, bool, error) {
	return r.next.GetByID(ctx, seasonID)
}

func (r *SeasonRepository) ActivateCup(ctx context.Context, seasonID int64, activatedAt time.Time, details season.ActivationDetails) (season.ActivationOutcome, error) {
	return r.next.ActivateCup(ctx, seasonID, activatedAt, details)
}

func (r *SeasonRepository) ListAwaitingCupWinners(ctx context.Context) ([]season.Season, error) {
	return r.next.ListAwaitingCupWinners(ctx)
}

func (r *SeasonRepository) GetRound(ctx context.Context, roundID int64) (season.BettingRound, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, roundPrefix+strconv.FormatInt(roundID, 10), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetRound(ctx, roundID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errRoundMissing
		}
		return item, nil
	})
	if errors.Is(err, errRoundMissing) {
		return season.BettingRound{}, false, nil
	}
	if err != nil {
		return season.BettingRound{}, false, err
	}

	item, _ := v.(season.BettingRound)
	return item, true, nil
}

func (r *SeasonRepository) ListRoundsCreatedSince(ctx context.Context, seasonID int64, since time.Time) ([]season.BettingRound, error) {
	return r.next.ListRoundsCreatedSince(ctx, seasonID, since)
}
