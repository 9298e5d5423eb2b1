package domain

import "time"

// TrainingEntry represents a single logged training session of a swimmer.
type TrainingEntry struct {
	ID              string    `bson:"_id" json:"id"`
	UserID          string    `bson:"userId" json:"userId"`                           // Swimmer who owns the entry
	Date            string    `bson:"trainingDate" json:"date"`                       // YYYY-MM-DD
	Category        Category  `bson:"sessionType" json:"category"`                    // e.g., "Morning Swim"
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`         // Zero means not recorded
	HeartRate       *int      `bson:"heartRate,omitempty" json:"heartRate,omitempty"` // Optional
	Effort          Effort    `bson:"effortColor" json:"effort"`
	Complexity      int       `bson:"complexity" json:"complexity"` // 1..3
	Details         string    `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RestingHeartRateEntry is one morning resting heart rate measurement.
// There is at most one per swimmer per date.
type RestingHeartRateEntry struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Date      string    `bson:"entryDate" json:"date"`
	BPM       int       `bson:"restingHeartRate" json:"bpm"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BodyMetricEntry holds a height and/or weight measurement.
type BodyMetricEntry struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Date      string    `bson:"entryDate" json:"date"`
	HeightCm  *float64  `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg  *float64  `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
