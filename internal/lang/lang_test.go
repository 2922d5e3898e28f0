package lang

import "testing"

const fixturePath = "../../testdata/language.json"

func TestLoadAndLabel(t *testing.T) {
	tbl, err := Load(fixturePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Current() != DefaultLocale {
		t.Fatalf("initial locale = %q, want %q", tbl.Current(), DefaultLocale)
	}
	if got := tbl.Label("motd"); got != "MOTD" {
		t.Fatalf("Label(motd) = %q, want MOTD", got)
	}
}

func TestSetLangTransitions(t *testing.T) {
	tbl, err := Load(fixturePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r := tbl.SetLang("nope"); r != SetLangUnknown {
		t.Fatalf("SetLang(unknown) = %v, want SetLangUnknown", r)
	}
	if r := tbl.SetLang(DefaultLocale); r != SetLangUnchanged {
		t.Fatalf("SetLang(same locale) = %v, want SetLangUnchanged", r)
	}
	if r := tbl.SetLang("en-us"); r != SetLangChanged {
		t.Fatalf("SetLang(en-us) = %v, want SetLangChanged", r)
	}
	if tbl.Current() != "en-us" {
		t.Fatalf("Current() after switch = %q, want en-us", tbl.Current())
	}
	if got := tbl.Label("motd"); got != "MOTD" {
		t.Fatalf("Label(motd) after switch = %q", got)
	}
	if got := tbl.Label("delay"); got != "Latency" {
		t.Fatalf("Label(delay) after switch = %q, want Latency", got)
	}
}

func TestListContainsBothLocales(t *testing.T) {
	tbl, err := Load(fixturePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	keys := tbl.List()
	found := map[string]bool{}
	for _, k := range keys {
		found[k] = true
	}
	if !found["zh-cn"] || !found["en-us"] {
		t.Fatalf("List() = %v, want to contain zh-cn and en-us", keys)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/language.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
