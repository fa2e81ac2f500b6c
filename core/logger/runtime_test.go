package logger

import "testing"

func TestBuildRID(t *testing.T) {
	rid := BuildRID(42, 7, 9)
	if rid != "42:7:9" {
		t.Fatalf("rid = %s", rid)
	}
}

func TestCompactRID(t *testing.T) {
	if got := CompactRID("123:456:789"); got != "3f.co.lx" {
		t.Fatalf("compact = %s", got)
	}
	if got := CompactRID("not-a-rid"); got != "not-a-rid" {
		t.Fatalf("malformed rid should pass through, got %s", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "abc\x00def\x7f"
	if got := SanitizeLimit(in, 4); got != "abcd" {
		t.Fatalf("sanitized = %q", got)
	}
	if got := SanitizeLimit("short", 100); got != "short" {
		t.Fatalf("sanitized = %q", got)
	}
	if got := SanitizeLimit("anything", 0); got != "" {
		t.Fatalf("limit 0 should empty, got %q", got)
	}
}

func TestContextMeta(t *testing.T) {
	ctx := WithRID(Background(), "1:2:3")
	ctx = WithUpdateMeta(ctx, 1, 3, 2)
	ctx = WithHandler(ctx, "save")

	if RIDFrom(ctx) != "1:2:3" {
		t.Fatalf("rid = %s", RIDFrom(ctx))
	}
	if UserIDFrom(ctx) != 3 || ChatIDFrom(ctx) != 2 {
		t.Fatalf("meta = %d/%d", UserIDFrom(ctx), ChatIDFrom(ctx))
	}
	if HandlerFrom(ctx) != "save" {
		t.Fatalf("handler = %s", HandlerFrom(ctx))
	}
}
