package core

import "strings"

// StageID identifies a cohort partition. Each stage has its own ledger spreadsheet and chat.
type StageID string

const (
	StageOne StageID = "1-bosqich"
	StageTwo StageID = "2-bosqich"
)

var (
	stageOneKeywords = []string{"1", "bakal", "first", "birinchi"}
	stageTwoKeywords = []string{"2", "magistr", "second", "ikkinchi"}
)

// NormalizeStage maps free-form stage/specialization tokens ("1-bosqich", "Bakalavr", "first", ...) to a
// canonical StageID. Unrecognized input is returned unchanged; callers check StageID.Known.
func NormalizeStage(raw string) StageID {
	s := CleanString(raw, true /* lower */)
	if containsAny(s, stageOneKeywords) {
		return StageOne
	}
	if containsAny(s, stageTwoKeywords) {
		return StageTwo
	}
	return StageID(raw)
}

// Known reports whether the stage is one of the canonical stages.
func (s StageID) Known() bool {
	return s == StageOne || s == StageTwo
}

func (s StageID) String() string {
	return string(s)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
