package syncer

import (
	"errors"
	"fmt"
)

// Stage identifies the pipeline step that failed.
type Stage int

const (
	StageClean Stage = iota
	StageLocate
	StageScan
	StagePackage
	StageIndex
	StageContent
)

func (s Stage) String() string {
	switch s {
	case StageClean:
		return "clean-outputs"
	case StageLocate:
		return "locate-repo"
	case StageScan:
		return "scan-entities"
	case StagePackage:
		return "package-all"
	case StageIndex:
		return "generate-index"
	case StageContent:
		return "persist-content"
	default:
		return "unknown"
	}
}

// ErrNoSkills reports a run that found nothing to publish. The run stops
// before packaging and leaves the previous catalog untouched.
var ErrNoSkills = errors.New("no skills found")

// SyncError is a fatal pipeline failure.
type SyncError struct {
	Stage   Stage
	Message string
	Err     error
	Skill   string
}

func (e *SyncError) Error() string {
	if e.Skill != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s '%s': %v", e.Stage, e.Message, e.Skill, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is matches another *SyncError with the same stage.
func (e *SyncError) Is(target error) bool {
	if t, ok := target.(*SyncError); ok {
		return e.Stage == t.Stage
	}
	return false
}
