package domain

import "fmt"

// Stage represents the derived development stage of a company at a snapshot
type Stage string

const (
	StageIdea    Stage = "IDEA"
	StagePreSeed Stage = "PRE_SEED"
	StageSeed    Stage = "SEED"
	StageSeriesA Stage = "SERIES_A"
	StageGrowth  Stage = "GROWTH"
)

// Stages lists every stage in development order
var Stages = []Stage{StageIdea, StagePreSeed, StageSeed, StageSeriesA, StageGrowth}

// ParseStage converts a stored stage token back into a Stage
func ParseStage(s string) (Stage, error) {
	for _, stage := range Stages {
		if string(stage) == s {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// SnapshotStatus represents the lifecycle state of a snapshot
type SnapshotStatus string

const (
	SnapshotStatusDraft       SnapshotStatus = "DRAFT"
	SnapshotStatusFinalized   SnapshotStatus = "FINALIZED"
	SnapshotStatusInvalidated SnapshotStatus = "INVALIDATED"
)

// ParseSnapshotStatus converts a stored status token back into a SnapshotStatus
func ParseSnapshotStatus(s string) (SnapshotStatus, error) {
	switch SnapshotStatus(s) {
	case SnapshotStatusDraft, SnapshotStatusFinalized, SnapshotStatusInvalidated:
		return SnapshotStatus(s), nil
	}
	return "", fmt.Errorf("unknown snapshot status %q", s)
}
