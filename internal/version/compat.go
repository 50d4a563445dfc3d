package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-equity/pkg/errors"
)

// CheckStateCompatibility reports whether state written with storedVersion can be loaded by
// a reader of currentVersion.
//
// Compatibility Rules:
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (1.0.0 reads 1.0.3)
//   - An empty stored version is treated as the current one, for state written before versioning
func CheckStateCompatibility(currentVersion, storedVersion string) error {
	currentVersion = strings.TrimPrefix(currentVersion, "v")
	storedVersion = strings.TrimPrefix(storedVersion, "v")

	if storedVersion == "" {
		return nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid current state version '%s'", currentVersion)
	}

	stored, err := semver.NewVersion(storedVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid stored state version '%s'", storedVersion)
	}

	if current.Major() != stored.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: reader is %d.x.x but state was written by %d.x.x",
			current.Major(), stored.Major())
	}

	if current.Minor() != stored.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "minor version mismatch: reader is %d.%d.x but state was written by %d.%d.x",
			current.Major(), current.Minor(), stored.Major(), stored.Minor())
	}

	return nil
}

// CheckState checks storedVersion against StateSchemaVersion.
func CheckState(storedVersion string) error {
	return CheckStateCompatibility(StateSchemaVersion, storedVersion)
}
