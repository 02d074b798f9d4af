package parser

import (
	"strings"
	"testing"

	"github.com/kevs-lang/kevs/core/ast"
	"github.com/kevs-lang/kevs/lexer"
)

func build(t *testing.T, src string) *ast.TableValue {
	t.Helper()
	tokens, err := lexer.Scan([]byte(src), lexer.Options{FileName: "test.kevs"})
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	table, err := Build(tokens, Options{FileName: "test.kevs"})
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}
	return table
}

func TestBuildPrimitives(t *testing.T) {
	table := build(t, `
name = "gopher";
age = 12;
ready = true;
hex = 0xFF;
oct = 0o17;
bin = 0b101;
neg = -7;
`)

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
	hex, err := table.GetInt("hex")
	if err != nil || hex != 255 {
		t.Errorf("GetInt(hex) = %d, %v, want 255, nil", hex, err)
	}
	oct, err := table.GetInt("oct")
	if err != nil || oct != 15 {
		t.Errorf("GetInt(oct) = %d, %v, want 15, nil", oct, err)
	}
	bin, err := table.GetInt("bin")
	if err != nil || bin != 5 {
		t.Errorf("GetInt(bin) = %d, %v, want 5, nil", bin, err)
	}
	neg, err := table.GetInt("neg")
	if err != nil || neg != -7 {
		t.Errorf("GetInt(neg) = %d, %v, want -7, nil", neg, err)
	}
}

func TestBuildMaxMinInt64(t *testing.T) {
	table := build(t, `
max = 9223372036854775807;
min = -9223372036854775808;
`)
	max, err := table.GetInt("max")
	if err != nil || max != 9223372036854775807 {
		t.Errorf("GetInt(max) = %d, %v, want max int64", max, err)
	}
	min, err := table.GetInt("min")
	if err != nil || min != -9223372036854775808 {
		t.Errorf("GetInt(min) = %d, %v, want min int64", min, err)
	}
}

func TestBuildIntOverflow(t *testing.T) {
	_, err := buildErr(t, `n = 9223372036854775808;`)
	if err == nil {
		t.Fatal("expected overflow error, got nil")
	}
	if !strings.Contains(err.Error(), "not an integer") {
		t.Errorf("error = %q, want substring %q", err.Error(), "not an integer")
	}
}

func TestBuildHeterogeneousList(t *testing.T) {
	table := build(t, `items = [1; "two"; true; [3; 4;];];`)

	list, err := table.GetList("items")
	if err != nil {
		t.Fatalf("GetList(items) returned error: %v", err)
	}
	if list.Len() != 4 {
		t.Fatalf("list.Len() = %d, want 4", list.Len())
	}

	n, err := list.GetInt(0)
	if err != nil || n != 1 {
		t.Errorf("list.GetInt(0) = %d, %v, want 1, nil", n, err)
	}
	s, err := list.GetString(1)
	if err != nil || s != "two" {
		t.Errorf("list.GetString(1) = %q, %v, want %q, nil", s, err, "two")
	}
	b, err := list.GetBool(2)
	if err != nil || !b {
		t.Errorf("list.GetBool(2) = %v, %v, want true, nil", b, err)
	}
	nested, err := list.GetList(3)
	if err != nil || nested.Len() != 2 {
		t.Errorf("list.GetList(3) len = %v, %v, want 2, nil", nested, err)
	}
}

func TestBuildNestedTable(t *testing.T) {
	table := build(t, `
server = {
  host = "localhost";
  port = 8080;
  tls = {
    enabled = true;
  };
};
`)
	server, err := table.GetTable("server")
	if err != nil {
		t.Fatalf("GetTable(server) returned error: %v", err)
	}
	host, err := server.GetString("host")
	if err != nil || host != "localhost" {
		t.Errorf("GetString(host) = %q, %v, want %q, nil", host, err, "localhost")
	}
	tls, err := server.GetTable("tls")
	if err != nil {
		t.Fatalf("GetTable(tls) returned error: %v", err)
	}
	enabled, err := tls.GetBool("enabled")
	if err != nil || !enabled {
		t.Errorf("GetBool(enabled) = %v, %v, want true, nil", enabled, err)
	}
}

func TestBuildEscapesAndUnicode(t *testing.T) {
	table := build(t, `greeting = "hi\tthere\n\u00e9\U0001F600";`)
	got, err := table.GetString("greeting")
	if err != nil {
		t.Fatalf("GetString(greeting) returned error: %v", err)
	}
	want := "hi\tthere\n\u00e9\U0001F600"
	if got != want {
		t.Errorf("GetString(greeting) = %q, want %q", got, want)
	}
}

func TestBuildRawStringNoEscapes(t *testing.T) {
	table := build(t, "path = `C:\\no\\escapes\\n`;")
	got, err := table.GetString("path")
	if err != nil || got != `C:\no\escapes\n` {
		t.Errorf("GetString(path) = %q, %v, want %q, nil", got, err, `C:\no\escapes\n`)
	}
}

func TestBuildDuplicateKeyError(t *testing.T) {
	_, err := buildErr(t, `
a = 1;
a = 2;
`)
	if err == nil {
		t.Fatal("expected duplicate key error, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate key") {
		t.Errorf("error = %q, want substring %q", err.Error(), "duplicate key")
	}
}

func TestBuildDuplicateKeyErrorNestedTable(t *testing.T) {
	_, err := buildErr(t, `
t = {
  x = 1;
  x = 2;
};
`)
	if err == nil {
		t.Fatal("expected duplicate key error, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate key") {
		t.Errorf("error = %q, want substring %q", err.Error(), "duplicate key")
	}
}

func TestBuildDuplicateKeyAcrossSiblingTablesSucceeds(t *testing.T) {
	table := build(t, `
t1 = { x = 1; };
t2 = { x = 1; };
`)

	t1, err := table.GetTable("t1")
	if err != nil {
		t.Fatalf("GetTable(t1) returned error: %v", err)
	}
	x1, err := t1.GetInt("x")
	if err != nil || x1 != 1 {
		t.Errorf("t1.GetInt(x) = %v, %v, want 1, nil", x1, err)
	}

	t2, err := table.GetTable("t2")
	if err != nil {
		t.Fatalf("GetTable(t2) returned error: %v", err)
	}
	x2, err := t2.GetInt("x")
	if err != nil || x2 != 1 {
		t.Errorf("t2.GetInt(x) = %v, %v, want 1, nil", x2, err)
	}
}

func TestBuildEmptyListBody(t *testing.T) {
	table := build(t, `xs = [];`)

	list, err := table.GetList("xs")
	if err != nil {
		t.Fatalf("GetList(xs) returned error: %v", err)
	}
	if got := list.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestBuildEmptyTableBody(t *testing.T) {
	table := build(t, `t = {};`)

	inner, err := table.GetTable("t")
	if err != nil {
		t.Fatalf("GetTable(t) returned error: %v", err)
	}
	if got := inner.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestBuildInvalidIdentifierKey(t *testing.T) {
	_, err := buildErr(t, `"not-an-identifier" = 1;`)
	if err == nil {
		t.Fatal("expected identifier error, got nil")
	}
	if !strings.Contains(err.Error(), "not a valid identifier") {
		t.Errorf("error = %q, want substring %q", err.Error(), "not a valid identifier")
	}
}

func TestBuildKeyStartingWithDigit(t *testing.T) {
	tokens, err := lexer.Scan([]byte(`1bad = 1;`), lexer.Options{FileName: "test.kevs"})
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	_, err = Build(tokens, Options{FileName: "test.kevs"})
	if err == nil {
		t.Fatal("expected identifier error, got nil")
	}
	if !strings.Contains(err.Error(), "not a valid identifier") {
		t.Errorf("error = %q, want substring %q", err.Error(), "not a valid identifier")
	}
}

func buildErr(t *testing.T, src string) (*ast.TableValue, error) {
	t.Helper()
	tokens, err := lexer.Scan([]byte(src), lexer.Options{FileName: "test.kevs"})
	if err != nil {
		return nil, err
	}
	return Build(tokens, Options{FileName: "test.kevs"})
}
