package domain

import "time"

// TechniquePlan is the coach-authored technique document of one swimmer.
// Data is the decoded JSON exactly as stored, older layouts included;
// callers normalize it before use.
type TechniquePlan struct {
	SwimmerID string    `bson:"_id" json:"swimmerId"`
	Data      any       `bson:"data" json:"data"`
	UpdatedBy string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// WeeklyComment is the coach's note on one swimmer's week, keyed by
// (SwimmerID, WeekStart).
type WeeklyComment struct {
	SwimmerID string    `bson:"swimmerId" json:"swimmerId"`
	CoachID   string    `bson:"coachId" json:"coachId"`
	WeekStart string    `bson:"weekStart" json:"weekStart"` // Monday, YYYY-MM-DD
	Text      string    `bson:"comment" json:"text"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SeasonGoal is a swimmer's goal for one season year.
type SeasonGoal struct {
	UserID     string    `bson:"userId" json:"userId"`
	SeasonYear int       `bson:"seasonYear" json:"seasonYear"`
	GoalText   string    `bson:"goalText" json:"goalText"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ViewMode selects between the single-week and 8-week dashboards.
type ViewMode string

const (
	ViewWeek       ViewMode = "week"
	ViewEightWeeks ViewMode = "8weeks"
)

// Settings is the per-user view state restored at sign-in.
type Settings struct {
	UserID            string    `bson:"_id" json:"userId"`
	SelectedSwimmerID string    `bson:"selectedSwimmerId,omitempty" json:"selectedSwimmerId,omitempty"`
	ViewMode          ViewMode  `bson:"viewMode" json:"viewMode"`
	ReferenceDate     string    `bson:"referenceDate,omitempty" json:"referenceDate,omitempty"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultSettings is what a user sees before saving anything.
func DefaultSettings(userID string) Settings {
	return Settings{UserID: userID, ViewMode: ViewWeek}
}
