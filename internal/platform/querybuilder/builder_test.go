package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := Select("br.id", "br.season_id").
		From("betting_rounds br").
		Join("seasons s ON s.id = br.season_id").
		LeftJoin("cup_points cp ON cp.betting_round_id = br.id").
		Where(Eq("br.season_id", int64(4)), Gte("br.created_at", since), NotNull("s.cup_activated_at")).
		OrderBy("br.created_at", "br.id").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT br.id, br.season_id FROM betting_rounds br JOIN seasons s ON s.id = br.season_id LEFT JOIN cup_points cp ON cp.betting_round_id = br.id " +
		"WHERE br.season_id = $1 AND br.created_at >= $2 AND s.cup_activated_at IS NOT NULL ORDER BY br.created_at, br.id LIMIT 50"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(4) || args[1] != since {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ExprPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("seasons").
		Where(Eq("cup_activated", true), Expr("NOT EXISTS (SELECT 1 FROM cup_winners w WHERE w.season_id = seasons.id AND w.user_id <> ?)", "ghost"), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM seasons WHERE cup_activated = $1 AND NOT EXISTS (SELECT 1 FROM cup_winners w WHERE w.season_id = seasons.id AND w.user_id <> $2) AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[1] != "ghost" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels_MultiRowWithConflictSuffix(t *testing.T) {
	type row struct {
		UserID   string `db:"user_id"`
		RoundID  int64  `db:"betting_round_id"`
		Points   int    `db:"points"`
		internal string
		Skipped  string `db:"-"`
	}

	query, args, err := InsertModels("cup_points", []row{
		{UserID: "u1", RoundID: 3, Points: 4},
		{UserID: "u2", RoundID: 3, Points: 1},
	}, "ON CONFLICT (user_id, betting_round_id) DO UPDATE SET points = EXCLUDED.points")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO cup_points (user_id, betting_round_id, points) VALUES ($1, $2, $3), ($4, $5, $6) " +
		"ON CONFLICT (user_id, betting_round_id) DO UPDATE SET points = EXCLUDED.points"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[3] != "u2" || args[5] != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[row]("cup_points", nil, ""); err == nil {
		t.Fatalf("expected error for empty insert")
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("cup_winners").Columns("season_id", "user_id").Values(int64(1)).ToSQL()
	if err == nil {
		t.Fatalf("expected width mismatch error")
	}
}
