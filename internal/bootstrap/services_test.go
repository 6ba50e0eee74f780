package bootstrap

import (
	"testing"
	"time"

	"github.com/clientus/portal/config"
)

func TestNewServices_WiresAllServices(t *testing.T) {
	deps := &ServiceDeps{
		Config: &config.AppConfig{
			Auth: config.AuthConfig{
				Mode: config.AuthModeDemo,
				Demo: config.DemoAuthConfig{SessionDuration: 8 * time.Hour},
			},
		},
		Logger: discardLogger(),
	}

	container := NewServices(deps)

	if container.Accounts == nil {
		t.Error("NewServices() Accounts = nil")
	}
	if container.Materials == nil {
		t.Error("NewServices() Materials = nil")
	}
	if container.Campaigns == nil {
		t.Error("NewServices() Campaigns = nil")
	}
	if container.Documents == nil {
		t.Error("NewServices() Documents = nil")
	}
	if container.Notifications == nil {
		t.Error("NewServices() Notifications = nil")
	}
	if container.Dashboard == nil {
		t.Error("NewServices() Dashboard = nil")
	}

	// No Redis client means sessions cannot be stored, so auth stays off.
	if container.Auth != nil {
		t.Errorf("NewServices() Auth = %v, want nil without redis", container.Auth)
	}
}
