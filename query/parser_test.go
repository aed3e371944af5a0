package query

import (
	"testing"
)

func parseOne(t *testing.T, source string) Statement {
	t.Helper()
	stmts, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", source, err)
	}
	if len(stmts) != 1 {
		t.Fatalf("Parse(%q) = %d statements, want 1", source, len(stmts))
	}
	return stmts[0]
}

func TestParser_Import(t *testing.T) {
	stmt, ok := parseOne(t, `IMPORT TABLE obs FROM "obs.csv";`).(*ImportStmt)
	if !ok {
		t.Fatalf("statement type = %T, want *ImportStmt", stmt)
	}
	if stmt.Table != "obs" || stmt.File != "obs.csv" {
		t.Errorf("ImportStmt = %+v", stmt)
	}
}

func TestParser_Export(t *testing.T) {
	stmt, ok := parseOne(t, `EXPORT TABLE obs AS "out.csv";`).(*ExportStmt)
	if !ok {
		t.Fatalf("statement type = %T, want *ExportStmt", stmt)
	}
	if stmt.Table != "obs" || stmt.File != "out.csv" {
		t.Errorf("ExportStmt = %+v", stmt)
	}
}

func TestParser_ExportAvg(t *testing.T) {
	stmt, ok := parseOne(t, `EXPORT AVG(Temperatura) FROM obs AS "media.csv";`).(*ExportAvgStmt)
	if !ok {
		t.Fatalf("statement type = %T, want *ExportAvgStmt", stmt)
	}
	if stmt.Column != "Temperatura" || stmt.Table != "obs" || stmt.File != "media.csv" {
		t.Errorf("ExportAvgStmt = %+v", stmt)
	}
}

func TestParser_DiscardRenameCall(t *testing.T) {
	if s := parseOne(t, "DISCARD TABLE obs;").(*DiscardStmt); s.Table != "obs" {
		t.Errorf("DiscardStmt = %+v", s)
	}
	if s := parseOne(t, "RENAME TABLE old new;").(*RenameStmt); s.From != "old" || s.To != "new" {
		t.Errorf("RenameStmt = %+v", s)
	}
	if s := parseOne(t, "CALL limpeza;").(*CallStmt); s.Name != "limpeza" {
		t.Errorf("CallStmt = %+v", s)
	}
}

func TestParser_PrintForms(t *testing.T) {
	if s := parseOne(t, "PRINT TABLE obs;").(*PrintStmt); s.Table != "obs" || s.Title != "" {
		t.Errorf("PrintStmt = %+v", s)
	}
	if s := parseOne(t, `PRINT TABLE obs AS "Observations";`).(*PrintStmt); s.Title != "Observations" {
		t.Errorf("PrintStmt = %+v", s)
	}
	if s := parseOne(t, `PRINT "hello";`).(*PrintTextStmt); s.Text != "hello" {
		t.Errorf("PrintTextStmt = %+v", s)
	}
	if s := parseOne(t, "PRINT AVG(Temp) FROM obs;").(*PrintAvgStmt); s.Column != "Temp" || s.Table != "obs" {
		t.Errorf("PrintAvgStmt = %+v", s)
	}
}

func TestParser_SelectStar(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM obs;").(*SelectStmt)
	if stmt.Columns != nil {
		t.Errorf("Columns = %v, want nil for *", stmt.Columns)
	}
	if stmt.Table != "obs" || stmt.Where != nil || stmt.Limit != nil {
		t.Errorf("SelectStmt = %+v", stmt)
	}
}

func TestParser_SelectColumnsWhereLimit(t *testing.T) {
	stmt := parseOne(t, "SELECT Id, Temp FROM obs WHERE Temp > 22 LIMIT 5;").(*SelectStmt)

	if len(stmt.Columns) != 2 || stmt.Columns[0] != "Id" || stmt.Columns[1] != "Temp" {
		t.Errorf("Columns = %v", stmt.Columns)
	}
	cmp, ok := stmt.Where.(*ComparisonCond)
	if !ok {
		t.Fatalf("Where type = %T, want *ComparisonCond", stmt.Where)
	}
	if cmp.Column != "Temp" || cmp.Operator != TokenGreater || cmp.Value != float64(22) {
		t.Errorf("ComparisonCond = %+v", cmp)
	}
	if stmt.Limit == nil || *stmt.Limit != 5 {
		t.Errorf("Limit = %v, want 5", stmt.Limit)
	}
}

func TestParser_AndIsLeftAssociative(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM t WHERE a = 1 AND b = 2 AND c = 3;").(*SelectStmt)

	// a AND b AND c parses as And(And(a, b), c)
	outer, ok := stmt.Where.(*AndCond)
	if !ok {
		t.Fatalf("Where type = %T, want *AndCond", stmt.Where)
	}
	inner, ok := outer.Left.(*AndCond)
	if !ok {
		t.Fatalf("Left type = %T, want *AndCond", outer.Left)
	}
	if c := inner.Left.(*ComparisonCond); c.Column != "a" {
		t.Errorf("innermost left column = %q, want a", c.Column)
	}
	if c := inner.Right.(*ComparisonCond); c.Column != "b" {
		t.Errorf("inner right column = %q, want b", c.Column)
	}
	if c := outer.Right.(*ComparisonCond); c.Column != "c" {
		t.Errorf("outer right column = %q, want c", c.Column)
	}
}

func TestParser_ConditionValueKinds(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   interface{}
	}{
		{"number", "SELECT * FROM t WHERE x = -10.5;", float64(-10.5)},
		{"string", `SELECT * FROM t WHERE x = "Porto";`, "Porto"},
		{"bare identifier stays a literal", "SELECT * FROM t WHERE x = Porto;", "Porto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseOne(t, tt.source).(*SelectStmt)
			cmp := stmt.Where.(*ComparisonCond)
			if cmp.Value != tt.want {
				t.Errorf("Value = %#v, want %#v", cmp.Value, tt.want)
			}
		})
	}
}

func TestParser_CreateFromSelect(t *testing.T) {
	stmt := parseOne(t, "CREATE TABLE quentes SELECT * FROM obs WHERE Temp > 22;").(*CreateFromSelectStmt)
	if stmt.Table != "quentes" {
		t.Errorf("Table = %q", stmt.Table)
	}
	if stmt.Select == nil || stmt.Select.Table != "obs" || stmt.Select.Where == nil {
		t.Errorf("Select = %+v", stmt.Select)
	}
}

func TestParser_CreateFromJoin(t *testing.T) {
	stmt := parseOne(t, "CREATE TABLE j FROM a JOIN b USING (k);").(*CreateFromJoinStmt)
	if stmt.Table != "j" || stmt.Left != "a" || stmt.Right != "b" || stmt.Using != "k" {
		t.Errorf("CreateFromJoinStmt = %+v", stmt)
	}
}

func TestParser_Procedure(t *testing.T) {
	source := `PROCEDURE limpeza DO
		DISCARD TABLE temp;
		PRINT "done";
	END;`
	stmt := parseOne(t, source).(*ProcedureStmt)

	if stmt.Name != "limpeza" {
		t.Errorf("Name = %q", stmt.Name)
	}
	if len(stmt.Body) != 2 {
		t.Fatalf("Body = %d statements, want 2", len(stmt.Body))
	}
	if _, ok := stmt.Body[0].(*DiscardStmt); !ok {
		t.Errorf("Body[0] type = %T, want *DiscardStmt", stmt.Body[0])
	}
	if _, ok := stmt.Body[1].(*PrintTextStmt); !ok {
		t.Errorf("Body[1] type = %T, want *PrintTextStmt", stmt.Body[1])
	}
}

func TestParser_Update(t *testing.T) {
	stmt := parseOne(t, `UPDATE obs SET DataHora = "2024-01-01" WHERE Id = "42";`).(*UpdateStmt)
	want := UpdateStmt{
		Table:       "obs",
		SetColumn:   "DataHora",
		SetValue:    "2024-01-01",
		WhereColumn: "Id",
		WhereValue:  "42",
	}
	if *stmt != want {
		t.Errorf("UpdateStmt = %+v, want %+v", *stmt, want)
	}
}

func TestParser_MultipleStatements(t *testing.T) {
	source := `IMPORT TABLE a FROM "a.csv";
	SELECT * FROM a;
	DISCARD TABLE a;`
	stmts, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(stmts) != 3 {
		t.Errorf("Parse() = %d statements, want 3", len(stmts))
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty program", "   "},
		{"missing semicolon", "DISCARD TABLE obs"},
		{"statement starts with identifier", "obs SELECT * FROM t;"},
		{"import missing file", "IMPORT TABLE obs FROM;"},
		{"select missing table", "SELECT * FROM;"},
		{"condition missing value", "SELECT * FROM t WHERE a =;"},
		{"condition missing operator", "SELECT * FROM t WHERE a 5;"},
		{"incomplete AND", "SELECT * FROM t WHERE a = 1 AND;"},
		{"limit not a number", `SELECT * FROM t LIMIT "x";`},
		{"procedure without END", "PROCEDURE p DO CALL q;"},
		{"procedure with empty body", "PROCEDURE p DO END;"},
		{"join missing parens", "CREATE TABLE j FROM a JOIN b USING k;"},
		{"update with bare value", "UPDATE t SET a = 1 WHERE b = 2;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.source); err == nil {
				t.Errorf("Parse(%q) expected error", tt.source)
			}
		})
	}
}

func TestParser_FirstErrorAbortsWholeParse(t *testing.T) {
	// One invalid statement means no statement list at all
	source := `PRINT "ok";
	SELECT FROM t;
	PRINT "never";`
	stmts, err := Parse(source)
	if err == nil {
		t.Fatal("Parse() expected error")
	}
	if stmts != nil {
		t.Errorf("Parse() returned partial statements: %v", stmts)
	}
}
