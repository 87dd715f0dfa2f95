package usecase

import "context"

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// RelayStatus reports whether owner notifications can be attempted.
type RelayStatus interface {
	IsConfigured() bool
}

type healthUsecase struct {
	relay RelayStatus
}

func NewHealthUsecase(relay RelayStatus) HealthUsecase {
	return &healthUsecase{relay: relay}
}

// Check always reports the process as up; an unconfigured relay degrades
// notifications, not submissions.
func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	mail := "configured"
	if u.relay == nil || !u.relay.IsConfigured() {
		mail = "unconfigured"
	}
	return map[string]string{
		"status": "ok",
		"mail":   mail,
	}
}
