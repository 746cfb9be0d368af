package etl

import (
	"strings"
	"testing"

	"github.com/appaso/pipeline/pkg/mapping"
	"github.com/appaso/pipeline/pkg/table"
)

// keywordsTable builds a raw keyword-rankings export with n rows starting at
// the given ISO date.
func keywordsTable(n int, startDate string) *table.Table {
	t := table.New("DateTime", "Rank 1", "Rank 2 - 3", "Rank 4 - 10", "Rank 11-30", "Rank 31-100", "Rank 100+")
	base, err := ParseDate(startDate)
	if err != nil {
		panic(err)
	}
	for i := 0; i < n; i++ {
		date := base.AddDate(0, 0, i)
		t.Append([]string{date.Format("2006-01-02"), "3", "5", "12", "40", "80", "200"})
	}
	return t
}

// The merge must preserve every input row and keep Apple rows before Google
// rows.
func TestTransformMergePreservesRows(t *testing.T) {
	raw := map[mapping.DataType][]*RawTable{
		mapping.Keywords: {
			{DataType: mapping.Keywords, Platform: mapping.Apple, Filename: "APPLE motcles.csv", Table: keywordsTable(391, "2024-06-01")},
			{DataType: mapping.Keywords, Platform: mapping.Google, Filename: "GOOGLE motcles.csv", Table: keywordsTable(395, "2024-06-01")},
		},
	}

	out, err := NewTransformer(newTestLogger()).Transform(raw)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	merged := out[mapping.Keywords]
	if merged.Len() != 786 {
		t.Fatalf("merged %d rows, want 786", merged.Len())
	}

	platformIdx := merged.ColumnIndex("Platform")
	for i := 0; i < 391; i++ {
		if got := merged.Cell(i, platformIdx); got != "Apple" {
			t.Fatalf("row %d platform = %q, want Apple", i, got)
		}
	}
	for i := 391; i < 786; i++ {
		if got := merged.Cell(i, platformIdx); got != "Google" {
			t.Fatalf("row %d platform = %q, want Google", i, got)
		}
	}
}

func TestTransformStageLabels(t *testing.T) {
	tbl := table.New("Date", "Installs Apple")
	tbl.Append([]string{"14/07/2025", "100"})
	tbl.Append([]string{"15/07/2025", "110"})

	raw := map[mapping.DataType][]*RawTable{
		mapping.Installs: {
			{DataType: mapping.Installs, Platform: mapping.Apple, Filename: "Installs Apple.csv", Table: tbl},
			{DataType: mapping.Installs, Platform: mapping.Google, Filename: "Installs Google.csv", Table: installsGoogleTable()},
		},
	}

	out, err := NewTransformer(newTestLogger()).Transform(raw)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	merged := out[mapping.Installs]
	stageIdx := merged.ColumnIndex("Stage")
	if got := merged.Cell(0, stageIdx); got != StagePre {
		t.Errorf("14/07 stage = %q, want %q", got, StagePre)
	}
	if got := merged.Cell(1, stageIdx); got != StageCon {
		t.Errorf("15/07 stage = %q, want %q", got, StageCon)
	}
}

func installsGoogleTable() *table.Table {
	t := table.New("Date", "Installs Google Play")
	t.Append([]string{"2025-07-20", "90"})
	return t
}

// The Apple users export carries four metadata rows between header and data;
// they must not surface in the merged table.
func TestTransformSkipsAppleUsersMetadata(t *testing.T) {
	apple := table.New("Nom", "Courses U : Magasin en ligne")
	apple.Append([]string{"Identifiant", "123456"})
	apple.Append([]string{"Type", "App"})
	apple.Append([]string{"Unité", "Utilisateurs"})
	apple.Append([]string{"Plateforme", "iOS"})
	apple.Append([]string{"1 juil. 2025", "120"})
	apple.Append([]string{"2 juil. 2025", "131"})

	google := table.New("Date", "Utilisateurs actifs par mois (UAM) (Utilisateurs uniques, Par intervalle, Quotidiennes) : Tous les pays/régions", "Notes")
	google.Append([]string{"2025-07-01", "95", ""})

	raw := map[mapping.DataType][]*RawTable{
		mapping.Users: {
			{DataType: mapping.Users, Platform: mapping.Apple, Filename: "Utilisateurs connectés Apple.csv", Table: apple},
			{DataType: mapping.Users, Platform: mapping.Google, Filename: "Utilisateurs connectés Google.csv", Table: google},
		},
	}

	out, err := NewTransformer(newTestLogger()).Transform(raw)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	merged := out[mapping.Users]
	if merged.Len() != 3 {
		t.Fatalf("merged %d rows, want 3", merged.Len())
	}

	dateIdx := merged.ColumnIndex("Date")
	usersIdx := merged.ColumnIndex("Active_Users")
	if got := merged.Cell(0, dateIdx); got != "01/07/2025" {
		t.Errorf("first Apple date = %q, want 01/07/2025", got)
	}
	if got := merged.Cell(0, usersIdx); got != "120" {
		t.Errorf("first Apple active users = %q, want 120", got)
	}
	if got := merged.Cell(2, usersIdx); got != "95" {
		t.Errorf("Google active users = %q, want 95", got)
	}
}

func TestTransformMissingColumnFails(t *testing.T) {
	broken := table.New("DateTime", "Rank 1") // rank buckets missing
	broken.Append([]string{"2025-07-01", "3"})

	raw := map[mapping.DataType][]*RawTable{
		mapping.Keywords: {
			{DataType: mapping.Keywords, Platform: mapping.Apple, Filename: "APPLE motcles.csv", Table: broken},
		},
	}

	_, err := NewTransformer(newTestLogger()).Transform(raw)
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !strings.Contains(err.Error(), "missing expected column") {
		t.Errorf("error = %v, want missing-column message", err)
	}
	if !strings.Contains(err.Error(), "APPLE motcles.csv") {
		t.Errorf("error %v does not name the offending file", err)
	}
}

func TestTransformUnparsableDateFails(t *testing.T) {
	tbl := keywordsTable(2, "2025-07-01")
	tbl.Append([]string{"Total", "3", "5", "12", "40", "80", "200"})

	raw := map[mapping.DataType][]*RawTable{
		mapping.Keywords: {
			{DataType: mapping.Keywords, Platform: mapping.Apple, Filename: "APPLE motcles.csv", Table: tbl},
		},
	}

	_, err := NewTransformer(newTestLogger()).Transform(raw)
	if err == nil {
		t.Fatal("expected error for unparsable date")
	}
	if !strings.Contains(err.Error(), "unparsable date") {
		t.Errorf("error = %v, want unparsable-date message", err)
	}
}

func TestTransformSkipsEmptyRows(t *testing.T) {
	tbl := table.New("Date", "Installs Apple")
	tbl.Append([]string{"01/07/2025", "100"})
	tbl.Append([]string{"", ""})
	tbl.Append([]string{"02/07/2025", "105"})

	raw := map[mapping.DataType][]*RawTable{
		mapping.Installs: {
			{DataType: mapping.Installs, Platform: mapping.Apple, Filename: "Installs Apple.csv", Table: tbl},
		},
	}

	out, err := NewTransformer(newTestLogger()).Transform(raw)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got := out[mapping.Installs].Len(); got != 2 {
		t.Fatalf("merged %d rows, want 2", got)
	}
}
