package models

// AchievementDef is a catalog achievement; each one owned raises milk
type AchievementDef struct {
	Name   string
	Unlock Condition
}
