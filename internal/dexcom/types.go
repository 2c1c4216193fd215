package dexcom

import "time"

// EGV is one canonical glucose data point after response normalization.
// RecordID is the vendor-assigned identity key used for idempotent inserts.
type EGV struct {
	RecordID       string
	TransmitterID  string
	Value          float64
	Unit           string
	Trend          string
	TrendRate      *float64
	SystemTime     time.Time
	DisplayTime    time.Time
	DeviceMetadata map[string]interface{}
}

// Device is one entry from the vendor device list.
type Device struct {
	TransmitterID         string
	TransmitterGeneration string
	DisplayDevice         string
	LastUploadDate        *time.Time
}

// SensorSession is one sensor wear period reported by the data-range endpoint.
type SensorSession struct {
	SerialNumber string
	ModelName    string
	StartedAt    *time.Time
	EndedAt      *time.Time
}
