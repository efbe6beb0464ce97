package attendance

import "time"

// SetNowFunc overrides the clock of `svc`.
func SetNowFunc(svc *Service, f func() time.Time) {
	svc.nowFunc = f
}
