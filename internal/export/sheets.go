package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"familybudget/internal/config"
	"familybudget/internal/core"
	"familybudget/internal/report"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsAppender pushes backup snapshot rows to a Google spreadsheet so the
// tracker's history stays visible outside the app. Authentication uses
// service account credentials, inline JSON or a file path.
type SheetsAppender struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetsAppender(ctx context.Context, cfg *config.Config) (*SheetsAppender, error) {
	if cfg.GoogleSpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := cfg.GoogleSheetName
	if sheetName == "" {
		sheetName = "Backups"
	}

	var credentialsJSON []byte
	switch {
	case cfg.GoogleCredentialsJSON != "":
		credentialsJSON = []byte(cfg.GoogleCredentialsJSON)
	case cfg.GoogleCredentialsFile != "":
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsAppender{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendSnapshot writes one row summarizing a backup: when it ran, how many
// records each collection held and the expense and income totals in euros.
func (a *SheetsAppender) AppendSnapshot(ctx context.Context, taken time.Time, snap Snapshot) error {
	if a.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:G", a.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{{
		taken.UTC().Format(time.RFC3339),
		snap.ExpenseCount,
		snap.VariableExpenseCount,
		snap.IncomeCount,
		snap.GoalCount,
		snap.TotalExpenses.Float(),
		snap.TotalIncome.Float(),
	}}}

	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append snapshot row to %s: %w", a.sheetName, err)
	}
	return nil
}

// Snapshot is the summary a spreadsheet row carries.
type Snapshot struct {
	ExpenseCount         int
	VariableExpenseCount int
	IncomeCount          int
	GoalCount            int
	TotalExpenses        core.Money
	TotalIncome          core.Money
}

// SnapshotOf summarizes the collections a backup covered.
func SnapshotOf(fixed, variable, income []core.Record, goalCount int) Snapshot {
	return Snapshot{
		ExpenseCount:         len(fixed),
		VariableExpenseCount: len(variable),
		IncomeCount:          len(income),
		GoalCount:            goalCount,
		TotalExpenses:        report.Sum(fixed).Add(report.Sum(variable)),
		TotalIncome:          report.Sum(income),
	}
}
