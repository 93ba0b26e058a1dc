package calculation

import "time"

// nowFunc anchors month 0 of every projection (override in tests for
// determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }
