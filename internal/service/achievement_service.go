package service

import (
	"context"
	"fmt"
	"time"

	"hekaya/internal/cache"
	"hekaya/internal/logger"
	"hekaya/internal/models"
)

// AchievementStore is the persistence surface for unlock rows
type AchievementStore interface {
	InsertUnlockIgnore(u *models.AchievementUnlock) (bool, error)
	GetByID(id int64) (*models.AchievementUnlock, error)
	ListByMember(memberID int64) ([]models.AchievementUnlock, error)
	UnlockedLevels(memberID int64) (map[models.AchievementType]map[int]bool, error)
	MarkClaimed(id int64, at time.Time) (bool, error)
	CountByMember(memberID int64) (int, error)
}

// ProgressStore assembles the member snapshot evaluated against the catalog
type ProgressStore interface {
	MemberProgress(memberID int64, goalWords int) (*models.MemberProgress, error)
	LatestActive(memberID int64) (*models.DailyStat, error)
}

// progressMetrics maps each count-based achievement type to the snapshot
// field it measures. Adding a type is a catalog entry plus one line here.
var progressMetrics = map[models.AchievementType]func(*models.MemberProgress) int{
	models.AchievementDailyReader:      func(p *models.MemberProgress) int { return p.CurrentStreak },
	models.AchievementWordMaster:       func(p *models.MemberProgress) int { return p.LifetimeWords },
	models.AchievementStoryFinisher:    func(p *models.MemberProgress) int { return p.LifetimeStories },
	models.AchievementSpeedReader:      func(p *models.MemberProgress) int { return p.BestWordsPerMin },
	models.AchievementCategoryExplorer: func(p *models.MemberProgress) int { return p.CategoriesRead },
	models.AchievementMarathonReader:   func(p *models.MemberProgress) int { return p.TotalMinutes },
	models.AchievementEarlyBird:        func(p *models.MemberProgress) int { return p.EarlySessions },
	models.AchievementConsistentReader: func(p *models.MemberProgress) int { return p.LongestStreak },
	models.AchievementGoalGetter:       func(p *models.MemberProgress) int { return p.GoalDays },
}

// AchievementProgress describes how far a member is along one family
type AchievementProgress struct {
	CurrentLevel    int                     `json:"current_level"`
	NextLevel       int                     `json:"next_level,omitempty"`
	NextLevelInfo   *models.AchievementTier `json:"next_level_info,omitempty"`
	CurrentProgress int                     `json:"current_progress"`
	ProgressPercent int                     `json:"progress_percentage"`
	IsMaxLevel      bool                    `json:"is_max_level"`
}

// ClaimResult is the response to a successful claim
type ClaimResult struct {
	PointsAwarded int       `json:"points_awarded"`
	ClaimedAt     time.Time `json:"claimed_at"`
}

// AchievementService evaluates the catalog against member progress and
// manages unlock claims.
type AchievementService struct {
	catalog  *models.Catalog
	store    AchievementStore
	progress ProgressStore
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// NewAchievementService creates an achievement service around a catalog.
// The catalog is injected so tests can swap in alternate configurations.
func NewAchievementService(catalog *models.Catalog, store AchievementStore, progress ProgressStore,
	c cache.Cache, ttl time.Duration, log *logger.Logger) *AchievementService {
	return &AchievementService{
		catalog:  catalog,
		store:    store,
		progress: progress,
		cache:    c,
		cacheTTL: ttl,
		log:      log.With("service", "achievements"),
		now:      time.Now,
	}
}

// Evaluate scans the whole catalog against the member's current progress and
// creates unlock rows for every newly crossed tier. Idempotent: the unique
// (member, type, level) constraint plus the unlocked-set check guarantee a
// tier unlocks at most once, no matter how often evaluation re-runs.
func (s *AchievementService) Evaluate(ctx context.Context, memberID int64) ([]models.AchievementUnlock, error) {
	snapshot, err := s.memberSnapshot(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble progress snapshot: %w", err)
	}

	unlocked, err := s.store.UnlockedLevels(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlocked levels: %w", err)
	}

	var newly []models.AchievementUnlock
	for _, typ := range s.catalog.Types() {
		def, _ := s.catalog.Def(typ)
		for _, tier := range def.Tiers {
			if !s.tierMet(def, tier, snapshot) {
				continue
			}
			if unlocked[typ][tier.Level] {
				continue
			}

			unlock := models.AchievementUnlock{
				MemberID:      memberID,
				Type:          typ,
				Level:         tier.Level,
				Title:         tier.Title,
				PointsAwarded: tier.Points,
				AchievedAt:    s.now(),
			}
			created, err := s.store.InsertUnlockIgnore(&unlock)
			if err != nil {
				return newly, fmt.Errorf("failed to create unlock %s/%d: %w", typ, tier.Level, err)
			}
			if created {
				newly = append(newly, unlock)
			}
		}
	}

	if len(newly) > 0 {
		s.invalidateMember(ctx, memberID)
	}
	return newly, nil
}

// Progress returns the per-type progress map for a member.
func (s *AchievementService) Progress(ctx context.Context, memberID int64) (map[models.AchievementType]AchievementProgress, error) {
	key := fmt.Sprintf("achievements:%d:progress", memberID)
	cached := map[models.AchievementType]AchievementProgress{}
	if ok, _ := cache.GetJSON(ctx, s.cache, key, &cached); ok {
		return cached, nil
	}

	snapshot, err := s.memberSnapshot(memberID)
	if err != nil {
		return nil, err
	}
	unlocked, err := s.store.UnlockedLevels(memberID)
	if err != nil {
		return nil, err
	}

	result := make(map[models.AchievementType]AchievementProgress, len(s.catalog.Types()))
	for _, typ := range s.catalog.Types() {
		def, _ := s.catalog.Def(typ)

		currentLevel := 0
		for _, tier := range def.Tiers {
			if unlocked[typ][tier.Level] {
				currentLevel = tier.Level
			}
		}

		progress := AchievementProgress{CurrentLevel: currentLevel}
		if currentLevel >= len(def.Tiers) {
			progress.IsMaxLevel = true
			progress.ProgressPercent = 100
			progress.CurrentProgress = s.tierProgress(def, snapshot)
		} else {
			next := def.Tiers[currentLevel]
			progress.NextLevel = next.Level
			progress.NextLevelInfo = &next
			progress.CurrentProgress = s.tierProgress(def, snapshot)
			progress.ProgressPercent = s.percentToward(def, next, snapshot)
		}
		result[typ] = progress
	}

	if err := cache.SetJSON(ctx, s.cache, key, result, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache achievement progress", "member_id", memberID, "error", err)
	}
	return result, nil
}

// List returns every unlock a member has earned.
func (s *AchievementService) List(ctx context.Context, memberID int64) ([]models.AchievementUnlock, error) {
	key := fmt.Sprintf("achievements:%d:list", memberID)
	var cached []models.AchievementUnlock
	if ok, _ := cache.GetJSON(ctx, s.cache, key, &cached); ok {
		return cached, nil
	}

	unlocks, err := s.store.ListByMember(memberID)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.cache, key, unlocks, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache achievement list", "member_id", memberID, "error", err)
	}
	return unlocks, nil
}

// CountForMember returns how many unlocks the member has earned.
func (s *AchievementService) CountForMember(memberID int64) (int, error) {
	return s.store.CountByMember(memberID)
}

// Claim marks an unlock as claimed and returns the awarded points. Claiming
// someone else's unlock is denied; claiming twice conflicts instead of
// double-awarding.
func (s *AchievementService) Claim(ctx context.Context, achievementID, memberID int64) (*ClaimResult, error) {
	unlock, err := s.store.GetByID(achievementID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlock: %w", err)
	}
	if unlock == nil {
		return nil, fmt.Errorf("achievement %d: %w", achievementID, ErrNotFound)
	}
	if unlock.MemberID != memberID {
		return nil, fmt.Errorf("achievement %d belongs to another member: %w", achievementID, ErrAccessDenied)
	}
	if unlock.IsClaimed {
		return nil, fmt.Errorf("achievement %d: %w", achievementID, ErrAlreadyClaimed)
	}

	claimedAt := s.now()
	claimed, err := s.store.MarkClaimed(achievementID, claimedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to claim achievement: %w", err)
	}
	if !claimed {
		// Lost the race with a concurrent claim
		return nil, fmt.Errorf("achievement %d: %w", achievementID, ErrAlreadyClaimed)
	}

	s.invalidateMember(ctx, memberID)
	return &ClaimResult{PointsAwarded: unlock.PointsAwarded, ClaimedAt: claimedAt}, nil
}

// memberSnapshot loads progress and applies the streak freshness gate.
func (s *AchievementService) memberSnapshot(memberID int64) (*models.MemberProgress, error) {
	snapshot, err := s.progress.MemberProgress(memberID, goalGetterWords)
	if err != nil {
		return nil, err
	}
	latest, err := s.progress.LatestActive(memberID)
	if err != nil {
		return nil, err
	}
	snapshot.CurrentStreak = currentStreak(latest, models.DateOf(s.now()))
	return snapshot, nil
}

// tierMet reports whether the member's progress satisfies a tier.
func (s *AchievementService) tierMet(def *models.AchievementDef, tier models.AchievementTier, p *models.MemberProgress) bool {
	if def.Kind == models.RequireLevel {
		return models.LevelOrdinal(string(p.ReadingLevel)) >= models.LevelOrdinal(tier.RequiredLevel)
	}
	metric, ok := progressMetrics[def.Type]
	if !ok {
		return false
	}
	return metric(p) >= tier.Requirement
}

// tierProgress returns the raw progress value for a family.
func (s *AchievementService) tierProgress(def *models.AchievementDef, p *models.MemberProgress) int {
	if def.Kind == models.RequireLevel {
		return models.LevelOrdinal(string(p.ReadingLevel))
	}
	if metric, ok := progressMetrics[def.Type]; ok {
		return metric(p)
	}
	return 0
}

// percentToward computes the progress percentage toward a tier: proportional
// for numeric requirements, binary for ordinal level requirements.
func (s *AchievementService) percentToward(def *models.AchievementDef, tier models.AchievementTier, p *models.MemberProgress) int {
	if def.Kind == models.RequireLevel {
		if models.LevelOrdinal(string(p.ReadingLevel)) >= models.LevelOrdinal(tier.RequiredLevel) {
			return 100
		}
		return 0
	}
	if tier.Requirement <= 0 {
		return 0
	}
	current := s.tierProgress(def, p)
	percent := int(float64(current)/float64(tier.Requirement)*100 + 0.5)
	if percent > 100 {
		percent = 100
	}
	return percent
}

func (s *AchievementService) invalidateMember(ctx context.Context, memberID int64) {
	prefix := fmt.Sprintf("achievements:%d:", memberID)
	if err := s.cache.Invalidate(ctx, prefix); err != nil {
		s.log.Warn("cache invalidation failed", "prefix", prefix, "error", err)
	}
}
