package models

import "time"

// AchievementType identifies one of the achievement families
type AchievementType string

const (
	AchievementDailyReader      AchievementType = "daily_reader"
	AchievementWordMaster       AchievementType = "word_master"
	AchievementStoryFinisher    AchievementType = "story_finisher"
	AchievementSpeedReader      AchievementType = "speed_reader"
	AchievementCategoryExplorer AchievementType = "category_explorer"
	AchievementMarathonReader   AchievementType = "marathon_reader"
	AchievementLevelClimber     AchievementType = "level_climber"
	AchievementEarlyBird        AchievementType = "early_bird"
	AchievementConsistentReader AchievementType = "consistent_reader"
	AchievementGoalGetter       AchievementType = "goal_getter"
)

// RequirementKind distinguishes numeric thresholds from ordinal level targets
type RequirementKind int

const (
	// RequireCount compares a numeric progress metric against Requirement
	RequireCount RequirementKind = iota
	// RequireLevel compares the member's level ordinal against RequiredLevel
	RequireLevel
)

// AchievementTier is one level within an achievement family
type AchievementTier struct {
	Level         int    `json:"level"`
	Title         string `json:"title"`
	Requirement   int    `json:"requirement,omitempty"`
	RequiredLevel string `json:"required_level,omitempty"`
	Points        int    `json:"points"`
}

// AchievementDef defines a single achievement family with its five tiers,
// ordered by ascending requirement.
type AchievementDef struct {
	Type        AchievementType
	Name        string
	Description string
	Kind        RequirementKind
	Tiers       []AchievementTier
}

// AchievementUnlock is a (member, type, level) unlock row. The tuple is
// unique; re-triggering the same condition never creates a duplicate.
type AchievementUnlock struct {
	ID            int64           `json:"id"`
	MemberID      int64           `json:"member_id"`
	Type          AchievementType `json:"achievement_type"`
	Level         int             `json:"level"`
	Title         string          `json:"title"`
	PointsAwarded int             `json:"points_awarded"`
	AchievedAt    time.Time       `json:"achieved_at"`
	IsClaimed     bool            `json:"is_claimed"`
	ClaimedAt     *time.Time      `json:"claimed_at,omitempty"`
}

// MemberProgress is the per-member snapshot the achievement engine evaluates
// against the catalog. Each field backs one achievement family.
type MemberProgress struct {
	CurrentStreak   int
	LongestStreak   int
	LifetimeWords   int
	LifetimeStories int
	TotalMinutes    int
	BestWordsPerMin int
	CategoriesRead  int
	EarlySessions   int
	GoalDays        int
	ReadingLevel    ReadingLevel
}

// Catalog is the immutable achievement configuration. It is built once at
// startup (or per test) and is safe for unsynchronized concurrent reads.
type Catalog struct {
	defs  map[AchievementType]*AchievementDef
	order []AchievementType
}

// NewCatalog builds a catalog from definitions, preserving their order.
func NewCatalog(defs []AchievementDef) *Catalog {
	c := &Catalog{defs: make(map[AchievementType]*AchievementDef, len(defs))}
	for i := range defs {
		def := defs[i]
		c.defs[def.Type] = &def
		c.order = append(c.order, def.Type)
	}
	return c
}

// Types returns the achievement types in catalog order.
func (c *Catalog) Types() []AchievementType {
	return c.order
}

// Def returns the definition for a type.
func (c *Catalog) Def(t AchievementType) (*AchievementDef, bool) {
	def, ok := c.defs[t]
	return def, ok
}

// Tier returns the tier for (type, level), level being 1-based.
func (c *Catalog) Tier(t AchievementType, level int) (*AchievementTier, bool) {
	def, ok := c.defs[t]
	if !ok || level < 1 || level > len(def.Tiers) {
		return nil, false
	}
	return &def.Tiers[level-1], true
}

// DefaultCatalog returns the production achievement catalog: 10 families
// with 5 tiers each.
func DefaultCatalog() *Catalog {
	return NewCatalog([]AchievementDef{
		{
			Type: AchievementDailyReader, Name: "Daily Reader",
			Description: "Keep a daily reading streak going", Kind: RequireCount,
			Tiers: []AchievementTier{
				{Level: 1, Title: "First Spark", Requirement: 3, Points: 10},
				{Level: 2, Title: "Week Warrior", Requirement: 7, Points: 25},
				{Level: 3, Title: "Monthly Devotee", Requirement: 30, Points: 100},
				{Level: 4, Title: "Centurion", Requirement: 100, Points: 400},
				{Level: 5, Title: "Year of Stories", Requirement: 365, Points: 2000},
			},
		},
		{
			Type: AchievementWordMaster, Name: "Word Master",
			Description: "Read words across all stories", Kind: RequireCount,
			Tiers: []AchievementTier{
				{Level: 1, Title: "Bookworm", Requirement: 5000, Points: 10},
				{Level: 2, Title: "Page Turner", Requirement: 25000, Points: 50},
				{Level: 3, Title: "Word Collector", Requirement: 100000, Points: 150},
				{Level: 4, Title: "Lexicon Lord", Requirement: 500000, Points: 500},
				{Level: 5, Title: "Million Words", Requirement: 1000000, Points: 1500},
			},
		},
		{
			Type: AchievementStoryFinisher, Name: "Story Finisher",
			Description: "Finish stories to the last word", Kind: RequireCount,
			Tiers: []AchievementTier{
				{Level: 1, Title: "First Ending", Requirement: 10, Points: 15},
				{Level: 2, Title: "Chapter Closer", Requirement: 50, Points: 60},
				{Level: 3, Title: "Tale Chaser", Requirement: 200, Points: 200},
				{Level: 4, Title: "Saga Slayer", Requirement: 500, Points: 600},
				{Level: 5, Title: "Thousand Tales", Requirement: 1000, Points: 1500},
			},
		},
		{
			Type: AchievementSpeedReader, Name: "Speed Reader",
			Description: "Reach a high words-per-minute pace in a day", Kind: RequireCount,
			Tiers: []AchievementTier{
				{Level: 1, Title: "Quick Eyes", Requirement: 100, Points: 10},
				{Level: 2, Title: "Swift Scanner", Requirement: 150, Points: 30},
				{Level: 3, Title: "Rapid Reader", Requirement: 200, Points: 80},
				{Level: 4, Title: "Lightning Lines", Requirement: 250, Points: 200},
				{Level: 5, Title: "Sonic Sight", Requirement: 300, Points: 500},
			},
		},
		{
			Type: AchievementCategoryExplorer, Name: "Category Explorer",
			Description: "Read stories from different categories", Kind: RequireCount,
			Tiers: []AchievementTier{
				{Level: 1, Title: "Curious", Requirement: 3, Points: 10},
				{Level: 2, Title: "Wanderer", Requirement: 5, Points: 25},
				{Level: 3, Title: "Explorer", Requirement: 8, Points: 75},
				{Level: 4, Title: "Cartographer", Requirement: 12, Points: 150},
				{Level: 5, Title: "Omnivore", Requirement: 20, Points: 300},
			},
		},
		{
			Type: AchievementMarathonReader, Name: "Marathon Reader",
			Description: "Accumulate reading time", Kind: RequireCount,
			Tiers: []AchievementTier{
				{Level: 1, Title: "Five Hours In", Requirement: 300, Points: 10},
				{Level: 2, Title: "Long Hauler", Requirement: 1000, Points: 40},
				{Level: 3, Title: "Endurance", Requirement: 5000, Points: 150},
				{Level: 4, Title: "Ultra Reader", Requirement: 20000, Points: 500},
				{Level: 5, Title: "Timeless", Requirement: 50000, Points: 1200},
			},
		},
		{
			Type: AchievementLevelClimber, Name: "Level Climber",
			Description: "Climb the reading-level ladder", Kind: RequireLevel,
			Tiers: []AchievementTier{
				{Level: 1, Title: "First Rung", RequiredLevel: "elementary", Points: 20},
				{Level: 2, Title: "Steady Climb", RequiredLevel: "intermediate", Points: 50},
				{Level: 3, Title: "High Ground", RequiredLevel: "advanced", Points: 120},
				{Level: 4, Title: "Summit View", RequiredLevel: "expert", Points: 300},
				{Level: 5, Title: "Peak Master", RequiredLevel: "master", Points: 800},
			},
		},
		{
			Type: AchievementEarlyBird, Name: "Early Bird",
			Description: "Read before eight in the morning", Kind: RequireCount,
			Tiers: []AchievementTier{
				{Level: 1, Title: "Dawn Dipper", Requirement: 5, Points: 10},
				{Level: 2, Title: "Sunrise Regular", Requirement: 20, Points: 30},
				{Level: 3, Title: "Morning Fixture", Requirement: 50, Points: 80},
				{Level: 4, Title: "First Light", Requirement: 100, Points: 200},
				{Level: 5, Title: "Rooster", Requirement: 250, Points: 450},
			},
		},
		{
			Type: AchievementConsistentReader, Name: "Consistent Reader",
			Description: "Build a long best streak", Kind: RequireCount,
			Tiers: []AchievementTier{
				{Level: 1, Title: "Settling In", Requirement: 7, Points: 15},
				{Level: 2, Title: "Fortnight Force", Requirement: 14, Points: 40},
				{Level: 3, Title: "Monthly Machine", Requirement: 30, Points: 120},
				{Level: 4, Title: "Two Month Titan", Requirement: 60, Points: 300},
				{Level: 5, Title: "Half Year Hero", Requirement: 180, Points: 900},
			},
		},
		{
			Type: AchievementGoalGetter, Name: "Goal Getter",
			Description: "Hit the daily word goal", Kind: RequireCount,
			Tiers: []AchievementTier{
				{Level: 1, Title: "On Target", Requirement: 7, Points: 15},
				{Level: 2, Title: "Sharp Shooter", Requirement: 30, Points: 60},
				{Level: 3, Title: "Quarter Crusher", Requirement: 90, Points: 180},
				{Level: 4, Title: "Half Year Hitter", Requirement: 180, Points: 400},
				{Level: 5, Title: "Perfect Year", Requirement: 365, Points: 1000},
			},
		},
	})
}
