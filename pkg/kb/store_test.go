package kb

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func mustCreateSource(t *testing.T, s *Store, name string) {
	t.Helper()
	if err := s.CreateSource(name, false); err != nil {
		t.Fatalf("create source %s: %v", name, err)
	}
}

func seedDoc1(t *testing.T, s *Store) {
	t.Helper()
	mustCreateSource(t, s, "doc1")
	err := s.InsertSequences([]SequenceItem{
		{SequenceID: 0, Text: "食べる飲む。", Tokens: []string{"食べる", "飲む"}, SourceName: "doc1"},
	})
	if err != nil {
		t.Fatalf("insert sequences: %v", err)
	}
	err = s.InsertTokens([]TokenItem{
		{Token: "食べる", Count: 1, SequenceIDs: []int{0}, SourceName: "doc1", Priority: PriorityNormal},
		{Token: "飲む", Count: 1, SequenceIDs: []int{0}, SourceName: "doc1", Priority: PriorityNormal},
	})
	if err != nil {
		t.Fatalf("insert tokens: %v", err)
	}
	err = s.InsertKanjis([]KanjiItem{
		{Kanji: "食", Tokens: []string{"食べる"}, SourceName: "doc1"},
		{Kanji: "飲", Tokens: []string{"飲む"}, SourceName: "doc1"},
	})
	if err != nil {
		t.Fatalf("insert kanjis: %v", err)
	}
}

func TestOpenMissingDirIsEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nothing-here")
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for table, n := range s.Counts() {
		if n != 0 {
			t.Fatalf("expected empty %s table, got %d rows", table, n)
		}
	}
}

func TestSaveReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	seedDoc1(t, s)
	due := DateOf(time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local))
	if err := s.SetStudyEligibleFrom("食べる", "doc1", due); err != nil {
		t.Fatalf("set study date: %v", err)
	}
	if err := s.Save(false); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	want := s.Counts()
	got := reloaded.Counts()
	for table, n := range want {
		if got[table] != n {
			t.Fatalf("table %s: got %d rows, want %d", table, got[table], n)
		}
	}
	rows, err := reloaded.TokenItems(Query{Value: "食べる"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one 食べる row, got %d", len(rows))
	}
	if rows[0].StudyFrom == nil || !rows[0].StudyFrom.Equal(DateOf(due)) {
		t.Fatalf("study date lost in round-trip: %+v", rows[0].StudyFrom)
	}
	if rows[0].Count != 1 || len(rows[0].SequenceIDs) != 1 || rows[0].SequenceIDs[0] != 0 {
		t.Fatalf("token row mangled in round-trip: %+v", rows[0])
	}
}

func TestSaveWithBackupWritesTimestampedCopy(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	seedDoc1(t, s)
	if err := s.Save(true); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, backupDirName))
	if err != nil {
		t.Fatalf("read backup dir: %v", err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		t.Fatalf("expected one backup subdirectory, got %v", entries)
	}
	files, err := os.ReadDir(filepath.Join(dir, backupDirName, entries[0].Name()))
	if err != nil {
		t.Fatalf("read backup contents: %v", err)
	}
	if len(files) != 4 {
		t.Fatalf("expected 4 table files in backup, got %d", len(files))
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := newTestStore(t)
	seedDoc1(t, s)
	snap := s.Snapshot()
	if err := snap.MarkKnown(TableTokens, "食べる"); err != nil {
		t.Fatalf("mark known on snapshot: %v", err)
	}
	rows, err := s.TokenItems(Query{Value: "食べる"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if rows[0].Known == KnownYes {
		t.Fatal("mutating the snapshot leaked into the live store")
	}
}

func TestQueryResultsAreCopies(t *testing.T) {
	s := newTestStore(t)
	seedDoc1(t, s)
	rows, err := s.TokenItems(Query{Value: "食べる"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	rows[0].Known = KnownYes
	rows[0].SequenceIDs[0] = 99
	again, err := s.TokenItems(Query{Value: "食べる"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if again[0].Known == KnownYes || again[0].SequenceIDs[0] == 99 {
		t.Fatal("mutating a query result leaked into the store")
	}
}
