package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// CheckConstraint checks the engine version against a semver constraint from
// a configuration file, such as ">=1.0.0, <2.0.0" or "~1.2".
//
// Rules:
//   - An empty constraint accepts every version
//   - A "main" engine version (development build) accepts every constraint
//   - Prerelease engine versions are compared as their release version
func CheckConstraint(engineVersion, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil
	}

	engineVersion = strings.TrimPrefix(strings.TrimSpace(engineVersion), "v")
	if engineVersion == "main" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine_version constraint '%s'", constraint)
	}

	v, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	if v.Prerelease() != "" {
		release, err := v.SetPrerelease("")
		if err == nil {
			v = &release
		}
	}

	if ok, reasons := c.Validate(v); !ok {
		msgs := make([]string, 0, len(reasons))
		for _, r := range reasons {
			msgs = append(msgs, r.Error())
		}

		return errors.Newf(errors.ErrCodeInvalidVersion, "engine version %s does not satisfy '%s': %s",
			v.String(), constraint, strings.Join(msgs, "; "))
	}

	return nil
}
