package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// CheckConfigCompatibility checks that a configuration file written for
// configVersion can be read by a screener at screenerVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - The file may not need a newer minor version than the screener has
//   - Patch versions can differ
//
// Examples:
//   - Screener 1.2.0, file 1.2.0 -> OK
//   - Screener 1.3.0, file 1.2.4 -> OK (older file)
//   - Screener 1.2.0, file 1.3.0 -> ERROR (file needs a newer screener)
//   - Screener 2.0.0, file 1.2.0 -> ERROR (major differs)
func CheckConfigCompatibility(screenerVersion, configVersion string) error {
	screenerVersion = strings.TrimPrefix(screenerVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if screenerVersion == "main" || configVersion == "main" {
		return nil
	}

	screenerSemver, err := semver.NewVersion(screenerVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid screener version '%s'", screenerVersion)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid config version '%s'", configVersion)
	}

	if screenerSemver.Major() != configSemver.Major() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"major version mismatch: screener is %d.x.x but config requires %d.x.x",
			screenerSemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > screenerSemver.Minor() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"config requires screener %d.%d.x or newer, running %s",
			configSemver.Major(), configSemver.Minor(), screenerSemver.String())
	}

	return nil
}
