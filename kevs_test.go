package kevs_test

import (
	"strings"
	"testing"

	"github.com/kevs-lang/kevs"
)

func TestParsePrimitives(t *testing.T) {
	src := []byte(`
name = "gopher";
age = 12;
ready = true;
`)
	table, err := kevs.Parse("config.kevs", src)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	name, err := table.GetString("name")
	if err != nil || name != "gopher" {
		t.Errorf("GetString(name) = %q, %v, want %q, nil", name, err, "gopher")
	}
	age, err := table.GetInt("age")
	if err != nil || age != 12 {
		t.Errorf("GetInt(age) = %d, %v, want 12, nil", age, err)
	}
	ready, err := table.GetBool("ready")
	if err != nil || !ready {
		t.Errorf("GetBool(ready) = %v, %v, want true, nil", ready, err)
	}
}

func TestParseHeterogeneousList(t *testing.T) {
	table, err := kevs.Parse("config.kevs", []byte(`items = [1; "two"; true;];`))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	list, err := table.GetList("items")
	if err != nil {
		t.Fatalf("GetList(items) returned error: %v", err)
	}
	if list.Len() != 3 {
		t.Fatalf("list.Len() = %d, want 3", list.Len())
	}
}

func TestParseNestedTable(t *testing.T) {
	table, err := kevs.Parse("config.kevs", []byte(`
db = {
  host = "localhost";
  port = 5432;
};
`))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	db, err := table.GetTable("db")
	if err != nil {
		t.Fatalf("GetTable(db) returned error: %v", err)
	}
	port, err := db.GetInt("port")
	if err != nil || port != 5432 {
		t.Errorf("GetInt(port) = %d, %v, want 5432, nil", port, err)
	}
}

func TestParseEscapeAndUnicode(t *testing.T) {
	table, err := kevs.Parse("config.kevs", []byte(`s = "line1\nline2é";`))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	s, err := table.GetString("s")
	if err != nil {
		t.Fatalf("GetString(s) returned error: %v", err)
	}
	want := "line1\nline2é"
	if s != want {
		t.Errorf("GetString(s) = %q, want %q", s, want)
	}
}

func TestParseMultiBaseIntegers(t *testing.T) {
	table, err := kevs.Parse("config.kevs", []byte(`
a = 0xFF;
b = 0o17;
c = 0b1010;
d = 0;
`))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	cases := map[string]int64{"a": 255, "b": 15, "c": 10, "d": 0}
	for key, want := range cases {
		got, err := table.GetInt(key)
		if err != nil || got != want {
			t.Errorf("GetInt(%s) = %d, %v, want %d, nil", key, got, err, want)
		}
	}
}

func TestParseDuplicateKeyReturnsError(t *testing.T) {
	_, err := kevs.Parse("config.kevs", []byte("a = 1;\na = 2;\n"))
	if err == nil {
		t.Fatal("expected duplicate key error, got nil")
	}
	if !strings.Contains(err.Error(), "config.kevs:2:") {
		t.Errorf("error = %q, want file:line prefix %q", err.Error(), "config.kevs:2:")
	}
}

func TestParseErrorOmitsLocationWhenNameEmpty(t *testing.T) {
	_, err := kevs.Parse("", []byte("bad value;"))
	if err == nil {
		t.Fatal("expected scan error, got nil")
	}
	if strings.Contains(err.Error(), ".kevs:") {
		t.Errorf("error = %q, want no file:line prefix", err.Error())
	}
}

func TestScanStopsAfterTokenizing(t *testing.T) {
	tokens, err := kevs.Scan("config.kevs", []byte(`x = 1;`))
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(tokens) != 4 {
		t.Fatalf("len(tokens) = %d, want 4", len(tokens))
	}
	if tokens[0].Kind != "key" || tokens[0].Value != "x" {
		t.Errorf("tokens[0] = %+v, want key token 'x'", tokens[0])
	}
}

func TestParseDeeplyNestedTables(t *testing.T) {
	var b strings.Builder
	depth := 64
	for i := 0; i < depth; i++ {
		b.WriteString("t = {\n")
	}
	b.WriteString("leaf = 1;\n")
	for i := 0; i < depth; i++ {
		b.WriteString("};\n")
	}

	table, err := kevs.Parse("config.kevs", []byte(b.String()))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	cur := table
	for i := 0; i < depth; i++ {
		cur, err = cur.GetTable("t")
		if err != nil {
			t.Fatalf("GetTable(t) at depth %d returned error: %v", i, err)
		}
	}
	leaf, err := cur.GetInt("leaf")
	if err != nil || leaf != 1 {
		t.Errorf("GetInt(leaf) = %d, %v, want 1, nil", leaf, err)
	}
}
