package domain

import "time"

// ExportRecord stores metadata about a CSV export archived to object
// storage. The file itself resides in S3.
type ExportRecord struct {
	ID          string    `bson:"_id" json:"id"`
	SwimmerID   string    `bson:"swimmerId" json:"swimmerId"`     // Whose rows were exported
	RequestedBy string    `bson:"requestedBy" json:"requestedBy"` // Swimmer or coach who asked for it
	Kind        string    `bson:"kind" json:"kind"`               // training, rhr or body
	Scope       string    `bson:"scope" json:"scope"`             // week or all
	ObjectKey   string    `bson:"objectKey" json:"-"`             // Key in the S3 bucket, internal use
	FileName    string    `bson:"fileName" json:"fileName"`       // Download name, e.g. training_week.csv
	ContentType string    `bson:"contentType" json:"contentType"`
	Size        int64     `bson:"size" json:"size"`
	Rows        int       `bson:"rows" json:"rows"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
