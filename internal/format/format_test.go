package format

import (
	"strings"
	"testing"

	"mcslp/internal/lang"
	"mcslp/internal/status"
)

func loadTable(t *testing.T) *lang.Table {
	t.Helper()
	tbl, err := lang.Load("../../testdata/language.json")
	if err != nil {
		t.Fatalf("lang.Load: %v", err)
	}
	return tbl
}

func sampleRecord() status.StatusRecord {
	return status.StatusRecord{
		Address:          "mc.example.com",
		Port:             25565,
		Online:           true,
		SlpProtocol:      status.JSON,
		Version:          "1.21",
		ProtocolVersion:  767,
		MOTD:             "A Wonderful Server",
		StrippedMOTD:     "A Wonderful Server",
		CurrentPlayers:   3,
		MaxPlayers:       20,
		LatencyMillis:    42,
		ConnectionStatus: status.Success,
		PlayerList:       []status.Player{{Name: "Steve"}, {Name: "Alex"}},
	}
}

func TestRenderStructured(t *testing.T) {
	out, err := Render(sampleRecord(), loadTable(t), ModeStructured)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s, ok := out.(Structured)
	if !ok {
		t.Fatalf("Render(ModeStructured) returned %T, want Structured", out)
	}
	if !strings.Contains(s.PlayersHTML, "Steve") {
		t.Fatalf("PlayersHTML missing player sample: %q", s.PlayersHTML)
	}
}

func TestRenderPlainIncludesLabels(t *testing.T) {
	out, err := Render(sampleRecord(), loadTable(t), ModePlainOnly)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	p, ok := out.(PlainResult)
	if !ok {
		t.Fatalf("Render(ModePlainOnly) returned %T, want PlainResult", out)
	}
	if !strings.Contains(p.Text, "MOTD: A Wonderful Server") {
		t.Fatalf("plain text missing MOTD: %q", p.Text)
	}
	if !strings.Contains(p.Text, "玩家列表: Steve, Alex") {
		t.Fatalf("plain text missing player list: %q", p.Text)
	}
	if p.Favicon != nil {
		t.Fatal("ModePlainOnly must never attach a favicon")
	}
}

func TestRenderPlainFaviconAttachesBytes(t *testing.T) {
	rec := sampleRecord()
	rec.Favicon = []byte{0x89, 0x50, 0x4e, 0x47}
	out, err := Render(rec, loadTable(t), ModePlainFavicon)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	p := out.(PlainResult)
	if len(p.Favicon) != 4 {
		t.Fatalf("expected favicon bytes attached, got %v", p.Favicon)
	}
}

func TestRenderUnknownMode(t *testing.T) {
	if _, err := Render(sampleRecord(), loadTable(t), Mode(99)); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestRenderStructuredRoutesJSONComponentMOTD(t *testing.T) {
	rec := sampleRecord()
	rec.MOTD = `{"text":"Hello","color":"red","extra":[{"text":"World","bold":true}]}`
	out, err := Render(rec, loadTable(t), ModeStructured)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := out.(Structured)
	if !strings.Contains(s.MOTDHTML, `color:#AA0000`) {
		t.Fatalf("expected JSON component MOTD colored as a span, got %q", s.MOTDHTML)
	}
	if !strings.Contains(s.MOTDHTML, "<b>World</b>") {
		t.Fatalf("expected JSON component MOTD's bold extra rendered, got %q", s.MOTDHTML)
	}
	if strings.Contains(s.MOTDHTML, `"text"`) {
		t.Fatalf("raw JSON braces leaked into rendered HTML: %q", s.MOTDHTML)
	}
}
