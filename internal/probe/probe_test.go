package probe

import (
	"testing"

	"mcslp/internal/status"
)

func TestParseLegacyFields(t *testing.T) {
	decoded := "§1\x001\x0010.2\x00A Wonderful Server\x005\x0020"
	rec := parseLegacyFields(Options{IP: "1.2.3.4", Port: 25565}, status.Legacy, decoded, 7)
	if rec.ConnectionStatus != status.Success {
		t.Fatalf("expected success, got %v", rec.ConnectionStatus)
	}
	if rec.Version != "10.2" || rec.MOTD != "A Wonderful Server" {
		t.Fatalf("unexpected fields: %+v", rec)
	}
	if rec.StrippedMOTD != "A Wonderful Server" {
		t.Fatalf("expected StrippedMOTD set for plain-text MOTD, got %q", rec.StrippedMOTD)
	}
	if rec.CurrentPlayers != 5 || rec.MaxPlayers != 20 {
		t.Fatalf("unexpected player counts: %+v", rec)
	}
}

func TestParseLegacyFieldsWrongCount(t *testing.T) {
	rec := parseLegacyFields(Options{IP: "1.2.3.4", Port: 25565}, status.Legacy, "only\x00two", 7)
	if rec.ConnectionStatus != status.Unknown {
		t.Fatalf("expected Unknown for malformed field count, got %v", rec.ConnectionStatus)
	}
}

func TestParseBetaFields(t *testing.T) {
	decoded := "A §1Server§rName§5§20"
	rec := parseBetaFields(Options{IP: "1.2.3.4", Port: 25565}, decoded, 7)
	if rec.ConnectionStatus != status.Success {
		t.Fatalf("expected success, got %v", rec.ConnectionStatus)
	}
	if rec.Version != legacyVersionSentinel {
		t.Fatalf("expected sentinel version, got %q", rec.Version)
	}
	if rec.CurrentPlayers != 5 || rec.MaxPlayers != 20 {
		t.Fatalf("unexpected player counts: %+v", rec)
	}
	if rec.LatencyMillis != 7 {
		t.Fatalf("expected latency to be carried through, got %d", rec.LatencyMillis)
	}
	if rec.StrippedMOTD != "A ServerName" {
		t.Fatalf("expected StrippedMOTD stripped of §-codes, got %q", rec.StrippedMOTD)
	}
}

func TestParseBetaFieldsTooFewParts(t *testing.T) {
	rec := parseBetaFields(Options{IP: "1.2.3.4", Port: 25565}, "onlyonepart", 7)
	if rec.ConnectionStatus != status.Unknown {
		t.Fatalf("expected Unknown for too few § separated parts, got %v", rec.ConnectionStatus)
	}
	if rec.LatencyMillis != 7 {
		t.Fatalf("expected latency carried through even on failure, got %d", rec.LatencyMillis)
	}
}

func TestParseBedrockIDString(t *testing.T) {
	idString := "MCPE;A Server;390;1.17.2;2;10;1234;;Survival;1;19132;19133"
	rec := parseBedrockIDString(Options{IP: "1.2.3.4", Port: 19132}, idString, 42)
	if rec.ConnectionStatus != status.Success || !rec.Online {
		t.Fatalf("expected success, got %+v", rec)
	}
	if rec.Edition != "MCPE" || rec.MOTD != "A Server" || rec.Map != "" {
		t.Fatalf("unexpected motd/map/edition: %+v", rec)
	}
	if rec.StrippedMOTD != "A Server" {
		t.Fatalf("expected StrippedMOTD set for Bedrock MOTD, got %q", rec.StrippedMOTD)
	}
	if rec.ProtocolVersion != 390 || rec.Version != "1.17.2" {
		t.Fatalf("unexpected version fields: %+v", rec)
	}
	if rec.CurrentPlayers != 2 || rec.MaxPlayers != 10 {
		t.Fatalf("unexpected player counts: %+v", rec)
	}
	if rec.GameMode != "Survival" {
		t.Fatalf("unexpected gamemode: %q", rec.GameMode)
	}
}

func TestParseBedrockIDStringMissingTrailingFields(t *testing.T) {
	rec := parseBedrockIDString(Options{IP: "1.2.3.4", Port: 19132}, "MCPE;Old Server;100;1.0", 5)
	if rec.ConnectionStatus != status.Success {
		t.Fatalf("expected success even with missing trailing fields, got %+v", rec)
	}
	if rec.MOTD != "Old Server" || rec.Map != "" || rec.GameMode != "" {
		t.Fatalf("expected tolerant parse, got %+v", rec)
	}
}

func TestParseQueryStats(t *testing.T) {
	raw := []byte("hostname\x00A Server\x00version\x001.21\x00numplayers\x003\x00maxplayers\x0020\x00")
	stats := parseQueryStats(raw)
	if stats["hostname"] != "A Server" || stats["version"] != "1.21" {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestParseQueryPlugins(t *testing.T) {
	got := parseQueryPlugins("CraftBukkit: Essentials 1.0; WorldEdit 2.0")
	want := []string{"CraftBukkit", "Essentials 1.0", "WorldEdit 2.0"}
	if len(got) != len(want) {
		t.Fatalf("parseQueryPlugins = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("parseQueryPlugins[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseQueryPlayerList(t *testing.T) {
	got := parseQueryPlayerList([]byte("Alice\x00Bob\x00\x00"))
	want := []string{"Alice", "Bob"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("parseQueryPlayerList = %v, want %v", got, want)
	}
}
