package domain

import (
	"time"

	"github.com/google/uuid"
)

// DataType tags the kind of measurement a sample carries.
type DataType string

const (
	DataTypeStepCount              DataType = "stepCount"
	DataTypeDistanceWalkingRunning DataType = "distanceWalkingRunning"
	DataTypeActiveEnergyBurned     DataType = "activeEnergyBurned"
	DataTypeHeartRate              DataType = "heartRate"
	DataTypeRestingHeartRate       DataType = "restingHeartRate"
	DataTypeHeartRateVariability   DataType = "heartRateVariability"
	DataTypeOxygenSaturation       DataType = "oxygenSaturation"
	DataTypeBodyMass               DataType = "bodyMass"
	DataTypeBodyTemperature        DataType = "bodyTemperature"
	DataTypeRespiratoryRate        DataType = "respiratoryRate"
	DataTypeBloodGlucose           DataType = "bloodGlucose"
	DataTypeSleepAnalysis          DataType = "sleepAnalysis"
)

var knownDataTypes = map[DataType]struct{}{
	DataTypeStepCount:              {},
	DataTypeDistanceWalkingRunning: {},
	DataTypeActiveEnergyBurned:     {},
	DataTypeHeartRate:              {},
	DataTypeRestingHeartRate:       {},
	DataTypeHeartRateVariability:   {},
	DataTypeOxygenSaturation:       {},
	DataTypeBodyMass:               {},
	DataTypeBodyTemperature:        {},
	DataTypeRespiratoryRate:        {},
	DataTypeBloodGlucose:           {},
	DataTypeSleepAnalysis:          {},
}

// Valid reports whether t is one of the known data types.
func (t DataType) Valid() bool {
	_, ok := knownDataTypes[t]
	return ok
}

// Sample is a single time-series measurement captured on the device.
// Once saved, the ledger owns it; saving the same ID again updates it in place.
type Sample struct {
	ID        uuid.UUID
	Type      DataType
	Value     float64
	Unit      string
	StartDate time.Time
	EndDate   time.Time
	Source    *string
	Metadata  map[string]string
	IsSynced  bool
	CreatedAt time.Time
	TimeZone  string
}

// NewSample returns an unsynced sample with a fresh ID and creation time.
func NewSample(dataType DataType, value float64, unit string, start, end time.Time) Sample {
	return Sample{
		ID:        uuid.New(),
		Type:      dataType,
		Value:     value,
		Unit:      unit,
		StartDate: start,
		EndDate:   end,
		CreatedAt: time.Now().UTC(),
		TimeZone:  start.Location().String(),
	}
}

// SampleIDs returns the IDs of samples in order.
func SampleIDs(samples []Sample) []uuid.UUID {
	ids := make([]uuid.UUID, len(samples))
	for i, s := range samples {
		ids[i] = s.ID
	}
	return ids
}

// Chunk splits samples into consecutive slices of at most size elements.
func Chunk(samples []Sample, size int) [][]Sample {
	if size <= 0 || len(samples) == 0 {
		return nil
	}
	chunks := make([][]Sample, 0, (len(samples)+size-1)/size)
	for start := 0; start < len(samples); start += size {
		end := min(start+size, len(samples))
		chunks = append(chunks, samples[start:end])
	}
	return chunks
}

// DedupeByID drops earlier occurrences of a repeated ID, keeping the last
// value at the position of the first.
func DedupeByID(samples []Sample) []Sample {
	index := make(map[uuid.UUID]int, len(samples))
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if i, ok := index[s.ID]; ok {
			out[i] = s
			continue
		}
		index[s.ID] = len(out)
		out = append(out, s)
	}
	return out
}
