package settings

import (
	"github.com/fdg312/weight-tracker/internal/config"
	"github.com/fdg312/weight-tracker/internal/storage"
)

// Settings — переключатели домохозяйства
type Settings struct {
	ShowKidVariants      bool `json:"show_kid_variants"`
	SyncStepsFromHealth  bool `json:"sync_steps_from_health"`
	PushWeightToHealth   bool `json:"push_weight_to_health"`
	CloudSyncEnabled     bool `json:"cloud_sync_enabled"`
	SharedRollupsEnabled bool `json:"shared_rollups_enabled"`
}

// SettingsPatch — запрос для PUT /v1/settings. nil keeps the stored value.
type SettingsPatch struct {
	ShowKidVariants      *bool `json:"show_kid_variants,omitempty"`
	SyncStepsFromHealth  *bool `json:"sync_steps_from_health,omitempty"`
	PushWeightToHealth   *bool `json:"push_weight_to_health,omitempty"`
	CloudSyncEnabled     *bool `json:"cloud_sync_enabled,omitempty"`
	SharedRollupsEnabled *bool `json:"shared_rollups_enabled,omitempty"`
}

type SettingsResponse struct {
	Settings  Settings `json:"settings"`
	IsDefault bool     `json:"is_default"`
}

// Apply returns s with every non-nil patch field applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.ShowKidVariants != nil {
		s.ShowKidVariants = *p.ShowKidVariants
	}
	if p.SyncStepsFromHealth != nil {
		s.SyncStepsFromHealth = *p.SyncStepsFromHealth
	}
	if p.PushWeightToHealth != nil {
		s.PushWeightToHealth = *p.PushWeightToHealth
	}
	if p.CloudSyncEnabled != nil {
		s.CloudSyncEnabled = *p.CloudSyncEnabled
	}
	if p.SharedRollupsEnabled != nil {
		s.SharedRollupsEnabled = *p.SharedRollupsEnabled
	}
	return s
}

func fromDefaults(d config.TrackerDefaults) Settings {
	return Settings{
		ShowKidVariants:      d.ShowKidVariants,
		SyncStepsFromHealth:  d.SyncStepsFromHealth,
		PushWeightToHealth:   d.PushWeightToHealth,
		CloudSyncEnabled:     d.CloudSyncEnabled,
		SharedRollupsEnabled: d.SharedRollupsEnabled,
	}
}

func fromStorage(row storage.Settings) Settings {
	return Settings{
		ShowKidVariants:      row.ShowKidVariants,
		SyncStepsFromHealth:  row.SyncStepsFromHealth,
		PushWeightToHealth:   row.PushWeightToHealth,
		CloudSyncEnabled:     row.CloudSyncEnabled,
		SharedRollupsEnabled: row.SharedRollupsEnabled,
	}
}

func toStorage(s Settings) storage.Settings {
	return storage.Settings{
		ShowKidVariants:      s.ShowKidVariants,
		SyncStepsFromHealth:  s.SyncStepsFromHealth,
		PushWeightToHealth:   s.PushWeightToHealth,
		CloudSyncEnabled:     s.CloudSyncEnabled,
		SharedRollupsEnabled: s.SharedRollupsEnabled,
	}
}
