package core

// Notifications holds the per-feature reminder toggles.
type Notifications struct {
	BudgetAlerts    bool `json:"budgetAlerts"`
	MonthlyReports  bool `json:"monthlyReports"`
	GoalReminders   bool `json:"goalReminders"`
	BackupReminders bool `json:"backupReminders"`
}

// Settings is the user preference blob stored under its own collection key.
type Settings struct {
	Currency      string        `json:"currency"`
	DateFormat    string        `json:"dateFormat"`
	Language      string        `json:"language"`
	Theme         string        `json:"theme"`
	Notifications Notifications `json:"notifications"`
}

// DefaultSettings returns the settings used before the user saved any.
func DefaultSettings() Settings {
	return Settings{
		Currency:   "eur",
		DateFormat: "dd-mm-yyyy",
		Language:   "nl",
		Theme:      "light",
		Notifications: Notifications{
			BudgetAlerts:    true,
			MonthlyReports:  true,
			GoalReminders:   false,
			BackupReminders: true,
		},
	}
}
