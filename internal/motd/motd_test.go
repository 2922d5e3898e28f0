package motd

import "testing"

func TestStripLegacy(t *testing.T) {
	in := "§1A §lWonderful§r Server"
	got := StripLegacy(in)
	want := "A Wonderful Server"
	if got != want {
		t.Fatalf("StripLegacy(%q) = %q, want %q", in, got, want)
	}
}

func TestStripLegacyIdempotent(t *testing.T) {
	in := "§1A §lWonderful§r Server"
	once := StripLegacy(in)
	twice := StripLegacy(once)
	if once != twice {
		t.Fatalf("StripLegacy is not idempotent: %q != %q", once, twice)
	}
}

func TestStripJSONDepthFirst(t *testing.T) {
	tree := map[string]interface{}{
		"text": "A ",
		"extra": []interface{}{
			map[string]interface{}{"text": "Wonderful"},
			map[string]interface{}{"text": " Server"},
		},
	}
	got := StripJSON(tree)
	want := "A Wonderful Server"
	if got != want {
		t.Fatalf("StripJSON = %q, want %q", got, want)
	}
}

func TestStripJSONBareString(t *testing.T) {
	got := StripJSON("§cRed §rServer")
	want := "Red Server"
	if got != want {
		t.Fatalf("StripJSON(bare string) = %q, want %q", got, want)
	}
}

func TestHTMLLegacyDrainsStack(t *testing.T) {
	got := HTMLLegacy("§1Blue §lBold")
	if got == "" {
		t.Fatal("expected non-empty HTML")
	}
	wantSuffix := "</b></span>"
	if got[len(got)-len(wantSuffix):] != wantSuffix {
		t.Fatalf("HTMLLegacy did not drain the style stack at end of input: %q", got)
	}
}

func TestHTMLLegacyResetClosesEverything(t *testing.T) {
	got := HTMLLegacy("§1Blue§rPlain")
	if got != `<span style="color:#0000AA">Blue</span>Plain` {
		t.Fatalf("HTMLLegacy reset handling = %q", got)
	}
}

func TestHTMLJSONColorAndBold(t *testing.T) {
	node := map[string]interface{}{
		"text":  "hi",
		"color": "red",
		"bold":  true,
	}
	got := HTMLJSON(node)
	want := `<span style="color:#AA0000"><b>hi</b></span>`
	if got != want {
		t.Fatalf("HTMLJSON = %q, want %q", got, want)
	}
}

func TestHTMLJSONShorthandHex(t *testing.T) {
	if got := resolveColor("#abc"); got != "#aabbcc" {
		t.Fatalf("resolveColor shorthand = %q, want #aabbcc", got)
	}
}
