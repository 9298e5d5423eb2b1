package domain

import "strings"

// Category is the stored session type of a training entry.
type Category string

// Stored values, as written by the logging form.
const (
	CategoryMorningSwim   Category = "Morning Swim"
	CategoryAfternoonSwim Category = "Afternoon Swim"
	CategoryLandTraining  Category = "Land Training"
	CategoryOther         Category = "Other Activity"
)

// Categories lists the values accepted on input.
var Categories = []Category{CategoryMorningSwim, CategoryAfternoonSwim, CategoryLandTraining, CategoryOther}

// Bucket is the coarse grouping every chart and total uses.
type Bucket int

const (
	BucketOther Bucket = iota
	BucketSwim
	BucketLand
)

func (b Bucket) String() string {
	switch b {
	case BucketSwim:
		return "swim"
	case BucketLand:
		return "land"
	default:
		return "other"
	}
}

// Effort is the Green/White/Red intensity tag of a training entry.
type Effort string

const (
	EffortGreen Effort = "Green"
	EffortWhite Effort = "White"
	EffortRed   Effort = "Red"
)

// Efforts lists the values accepted on input.
var Efforts = []Effort{EffortGreen, EffortWhite, EffortRed}

// canonical lowercases s and drops separators so "Morning Swim",
// "morning_swim" and "MorningSwim" compare equal.
func canonical(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseCategory maps a stored session type onto its bucket. Anything that is
// not a known swim or land type, empty included, lands in BucketOther.
func ParseCategory(s string) Bucket {
	switch canonical(s) {
	case "morningswim", "afternoonswim", "swim":
		return BucketSwim
	case "landtraining", "land":
		return BucketLand
	default:
		return BucketOther
	}
}

// NormalizeCategory returns the stored spelling for a recognised session
// type and false for anything else.
func NormalizeCategory(s string) (Category, bool) {
	c := canonical(s)
	for _, cat := range Categories {
		if canonical(string(cat)) == c {
			return cat, true
		}
	}
	if c == "other" {
		return CategoryOther, true
	}
	return "", false
}

// ParseEffort maps an effort tag onto Green/White/Red. The Dutch labels used
// by the logging form are accepted too; anything unrecognised is White.
func ParseEffort(s string) Effort {
	switch canonical(s) {
	case "green", "groen":
		return EffortGreen
	case "red", "rood":
		return EffortRed
	default:
		return EffortWhite
	}
}

// NormalizeEffort is the strict variant used when validating input.
func NormalizeEffort(s string) (Effort, bool) {
	switch canonical(s) {
	case "green", "groen":
		return EffortGreen, true
	case "white", "wit":
		return EffortWhite, true
	case "red", "rood":
		return EffortRed, true
	}
	return "", false
}
